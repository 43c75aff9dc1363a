package entity

import "time"

// Estados de un operador.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User operador del sistema (pertenece a una empresa emisora).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string // admin, cajero, contador
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si el operador puede iniciar sesión.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }

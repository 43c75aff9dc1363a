package sri

import (
	"errors"
	"fmt"
)

// Errores base para clasificar fallos con errors.Is.
var (
	// ErrFormat indica un error de armado (bug del llamador): no se reintenta.
	ErrFormat = errors.New("sri: error de formato")
	// ErrValidation indica una operación rechazada con motivo legible para el usuario.
	ErrValidation = errors.New("sri: validación fallida")
)

// FormatError se produce cuando un campo de ancho fijo no cumple su longitud
// (clave de acceso distinta de 48 dígitos, secuencial con más de 9 dígitos, etc.).
type FormatError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("sri: formato inválido en %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("sri: formato inválido en %s (%q): %s", e.Field, e.Value, e.Reason)
}

// Is permite errors.Is(err, ErrFormat).
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ValidationError representa una regla de negocio incumplida (transición ilegal,
// tarifa inconsistente, código fuera de catálogo).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "sri: " + e.Reason
	}
	return fmt.Sprintf("sri: %s: %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func formatErr(field, value, reason string) error {
	return &FormatError{Field: field, Value: value, Reason: reason}
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NewFormatError crea un FormatError para campos armados fuera de este paquete.
func NewFormatError(field, value, reason string) error {
	return formatErr(field, value, reason)
}

// NewValidationError crea un ValidationError con motivo formateado.
func NewValidationError(field, format string, args ...any) error {
	return validationErr(field, format, args...)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Documents FiscalDocumentService
	Authority AuthorityService
	Rides     RideService
	Emitters  EmitterService
	Customers CustomerService
	Auth      AuthService
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	var authH *AuthHandler
	if deps.Auth != nil {
		authH = NewAuthHandler(deps.Auth)
		api.Post("/auth/login", authH.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	fiscalGroup := api.Group("/fiscal", AuthMiddleware(deps.JWTSecret))
	h := NewFiscalHandler(deps.Documents, deps.Authority, deps.Rides, deps.Emitters)

	issuers := RequireRole(jwt.RoleAdmin, jwt.RoleCashier)
	readers := RequireRole(jwt.RoleAdmin, jwt.RoleCashier, jwt.RoleAuditor)
	admins := RequireRole(jwt.RoleAdmin)

	// Emisor
	fiscalGroup.Get("/emitter", readers, h.GetEmitter)
	fiscalGroup.Put("/emitter", admins, h.SaveEmitter)

	// Operadores
	if authH != nil {
		fiscalGroup.Get("/users", admins, authH.ListUsers)
		fiscalGroup.Post("/users", admins, authH.CreateUser)
		fiscalGroup.Post("/users/:id/activate", admins, authH.Activate)
		fiscalGroup.Post("/users/:id/deactivate", admins, authH.Deactivate)
	}

	// Directorio de compradores
	if deps.Customers != nil {
		ch := NewCustomerHandler(deps.Customers)
		fiscalGroup.Get("/customers", readers, ch.List)
		fiscalGroup.Post("/customers", issuers, ch.Create)
		fiscalGroup.Get("/customers/:id", readers, ch.Get)
		fiscalGroup.Put("/customers/:id", issuers, ch.Update)
	}

	// Emisión
	fiscalGroup.Post("/invoices", issuers, h.IssueInvoice)
	fiscalGroup.Post("/credit-notes", issuers, h.IssueCreditNote)

	// Consulta y ciclo ante el SRI
	docs := fiscalGroup.Group("/documents")
	docs.Get("/", readers, h.List)
	docs.Get("/:id", readers, h.GetByID)
	docs.Post("/:id/send", issuers, h.Send)
	docs.Post("/:id/authorize", issuers, h.Authorize)
	docs.Post("/:id/void", admins, h.Void)

	// Descargas
	docs.Get("/:id/xml", readers, h.XML)
	docs.Get("/:id/ride", readers, h.Ride)
	docs.Post("/:id/ride/export", issuers, h.ExportRide)
	docs.Get("/:id/bundle", readers, h.Bundle)
}

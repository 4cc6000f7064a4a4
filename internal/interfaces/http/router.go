package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router del backend de desarrollo.
type RouterDeps struct {
	Store       *DevStore
	ServiceName string
	JWTSecret   string
	JWTIssuer   string
	JWTExpMin   int
}

// Router registra las rutas que consume el cliente.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.Store, deps.JWTSecret, deps.JWTIssuer, deps.JWTExpMin)
	matrixHandler := NewMatrixHandler(deps.Store)
	subHandler := NewSubscriptionHandler(deps.Store)

	// Sonda de vivacidad (pública)
	app.Get("/health/", Health(deps.ServiceName))

	// Auth (login público, el resto con Bearer Token)
	authGroup := app.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)

	// Matriz de permisos (protegido)
	perms := app.Group("/permissions", AuthMiddleware(deps.JWTSecret))
	perms.Get("/matrix", matrixHandler.Get)
	perms.Post("/matrix", matrixHandler.Update)

	// Suscripciones (protegido)
	subs := app.Group("/subscriptions", AuthMiddleware(deps.JWTSecret))
	subs.Get("/my-subscription", subHandler.My)
}

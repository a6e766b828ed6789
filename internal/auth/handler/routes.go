package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Post("/api/v1/refresh", h.Refresh)

	// Access-token gated endpoints
	app.Delete("/api/v1/session", h.RequireAccessToken(), h.Logout)
	app.Get("/api/v1/profile", h.RequireAccessToken(), h.GetProfile)
}

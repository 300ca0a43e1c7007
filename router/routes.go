package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gosim-wonderland/wonderland-server/auth"
	handler "github.com/gosim-wonderland/wonderland-server/handlers"
	"github.com/gosim-wonderland/wonderland-server/middleware"
)

// SetupRoutes registers the capture, display and admin API surfaces.
func SetupRoutes(app *fiber.App, h *handler.Handler, authSvc *auth.Service) {
	api := app.Group("/api", logger.New(), cors.New())

	// Capture client
	api.Post("/photos", h.UploadPhoto)
	api.Get("/photos/:id", h.GetPhoto)

	// Admin and display clients
	api.Get("/photos", h.ListPhotos)
	api.Get("/events", h.Events)

	// Admin
	adminAuth := api.Group("/admin")
	adminAuth.Post("/login", h.AdminLogin)

	moderation := api.Group("/photos", middleware.AdminRequired(authSvc))
	moderation.Post("/:id/approve", h.ApprovePhoto)
	moderation.Delete("/:id", h.RejectPhoto)
}

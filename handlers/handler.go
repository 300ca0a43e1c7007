package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gosim-wonderland/wonderland-server/ai"
	"github.com/gosim-wonderland/wonderland-server/auth"
	"github.com/gosim-wonderland/wonderland-server/config"
	"github.com/gosim-wonderland/wonderland-server/feed"
	"github.com/gosim-wonderland/wonderland-server/lifecycle"
	"github.com/gosim-wonderland/wonderland-server/storage"
)

// Handler bundles the injected collaborators behind the HTTP surface.
type Handler struct {
	photos    *lifecycle.Service
	gateway   ai.Gateway
	media     storage.MediaStore
	publisher *feed.Publisher
	auth      *auth.Service
	cfg       *config.Config
	validate  *validator.Validate
}

// New wires a Handler. Nothing here is optional; main constructs all of it.
func New(photos *lifecycle.Service, gateway ai.Gateway, media storage.MediaStore, publisher *feed.Publisher, authSvc *auth.Service, cfg *config.Config) *Handler {
	return &Handler{
		photos:    photos,
		gateway:   gateway,
		media:     media,
		publisher: publisher,
		auth:      authSvc,
		cfg:       cfg,
		validate:  validator.New(),
	}
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gosim-wonderland/wonderland-server/ai"
	"github.com/gosim-wonderland/wonderland-server/auth"
	"github.com/gosim-wonderland/wonderland-server/config"
	"github.com/gosim-wonderland/wonderland-server/database"
	"github.com/gosim-wonderland/wonderland-server/feed"
	handler "github.com/gosim-wonderland/wonderland-server/handlers"
	"github.com/gosim-wonderland/wonderland-server/lifecycle"
	"github.com/gosim-wonderland/wonderland-server/models"
	"github.com/gosim-wonderland/wonderland-server/router"
	"github.com/gosim-wonderland/wonderland-server/storage"
	"github.com/gosim-wonderland/wonderland-server/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	var photoStore lifecycle.Store
	if cfg.StoreBackend == "memory" {
		photoStore = store.NewMemoryStore()
		log.Println("Using in-memory photo store")
	} else {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				log.Printf("Error closing the database connection: %v", err)
			}
		}()

		if err := database.MigrateModels(db, &models.Photo{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		photoStore = store.NewPhotoStore(db)
	}

	var media storage.MediaStore
	switch cfg.StorageBackend {
	case "gcs":
		gcs, err := storage.NewGCSStore(ctx, cfg.GCSProjectID, cfg.GCSBucket)
		if err != nil {
			log.Fatalf("Failed to create GCS store: %v", err)
		}
		defer gcs.Close()
		media = gcs
	default:
		local, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
		if err != nil {
			log.Fatalf("Failed to create upload dir: %v", err)
		}
		media = local
	}

	var gateway ai.Gateway
	switch cfg.AIBackend {
	case "gemini":
		gateway, err = ai.NewGeminiGateway(ctx, cfg.AIModel, media, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("Failed to create gemini gateway: %v", err)
		}
	case "off":
		gateway = ai.Disabled{}
	default:
		gateway = ai.NewRemoteGateway(cfg.AIBaseURL, cfg.AIModel, cfg.PublicBaseURL, 0)
	}

	photos := lifecycle.NewService(photoStore, nil)
	publisher := feed.NewPublisher(photos, cfg.FeedInterval, cfg.FeedLimit)
	authSvc := auth.NewService(cfg.JWTSecret, cfg.AdminPassword, cfg.AdminPasswordHash, cfg.PublicBaseURL)

	h := handler.New(photos, gateway, media, publisher, authSvc, cfg)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadBytes()) + 1<<20,
	})

	if cfg.StorageBackend == "local" {
		app.Static("/uploads", cfg.UploadDir)
	}
	router.SetupRoutes(app, h, authSvc)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Server is listening at the port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

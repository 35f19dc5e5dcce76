package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthDB, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to open health-check connection: %v", err)
	}

	// Redis is an optional accelerator; the catalog works without it.
	var cache *redis.Client
	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		cache, err = database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Redis unavailable, catalog cache disabled: %v", err)
			cache = nil
		}
	}

	// S3 is optional; without a bucket images land in the media directory.
	var s3Config *config.S3Config
	if cfg.S3Bucket != "" {
		s3Config, err = config.NewS3Config(context.Background(), cfg.S3Bucket)
		if err != nil {
			log.Printf("S3 unavailable, storing images locally: %v", err)
			s3Config = nil
		}
	}

	authService := service.NewAuthService(gormDB, cfg.JWTSecret)
	catalogService := service.NewCatalogService(gormDB, cache)
	validator := service.NewRecipeValidator(gormDB, cfg.MaxCookingTime)
	recipeService := service.NewRecipeService(gormDB, validator)
	relationService := service.NewRelationService(gormDB)
	shoppingListService := service.NewShoppingListService(gormDB)
	followService := service.NewFollowService(gormDB)
	imageService := service.NewImageService(s3Config, cfg.MediaDir, cfg.MediaBaseURL)

	engine := router.SetupRouter(router.Options{
		AuthHandler:    api.NewAuthHandler(authService),
		CatalogHandler: api.NewCatalogHandler(catalogService),
		RecipeHandler:  api.NewRecipeHandler(recipeService, relationService, shoppingListService, imageService, authService),
		FollowHandler:  api.NewFollowHandler(followService, authService),
		HealthDB:       healthDB,
		MediaDir:       cfg.MediaDir,
		MediaBaseURL:   cfg.MediaBaseURL,
	})

	srv := server.NewServer(engine)
	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start(cfg.ServerHost + ":" + cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/middleware"
)

// Options collects everything the router needs to wire the API surface.
type Options struct {
	AuthHandler    *api.AuthHandler
	CatalogHandler *api.CatalogHandler
	RecipeHandler  *api.RecipeHandler
	FollowHandler  *api.FollowHandler

	// HealthDB is the raw connection behind GET /health; nil skips the probe.
	HealthDB *database.DB

	// MediaDir/MediaBaseURL serve locally stored recipe images.
	MediaDir     string
	MediaBaseURL string

	AllowedOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if opts.HealthDB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.HealthDB.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.MediaDir != "" && opts.MediaBaseURL != "" {
		router.Static(opts.MediaBaseURL, opts.MediaDir)
	}

	v1 := router.Group("/api/v1")
	opts.AuthHandler.RegisterRoutes(v1)
	opts.CatalogHandler.RegisterRoutes(v1)
	opts.RecipeHandler.RegisterRoutes(v1)
	opts.FollowHandler.RegisterRoutes(v1)

	return router
}

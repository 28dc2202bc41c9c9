// Package api serves the recipe catalog over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/recipebook/internal/catalog"
	"github.com/hammamikhairi/recipebook/internal/config"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/export"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/query"
)

// maxBodySize caps POST bodies (1MB).
const maxBodySize = 1 << 20

// Store is the catalog surface the API needs.
type Store interface {
	domain.RecipeSource
	Lookup(ctx context.Context, key string) (*domain.Recipe, error)
	Add(ctx context.Context, r domain.Recipe) (*domain.Recipe, error)
}

// Compile-time interface check.
var _ Store = (*catalog.Store)(nil)

// NewRouter builds the gin engine. cfg supplies the unit policy for new
// recipes and the default export format; nil uses the defaults.
func NewRouter(store Store, cfg *config.Config, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	h := &handler{
		store:        store,
		log:          log,
		query:        query.NewParser(log),
		ingredients:  ingredient.NewParser(ingredient.Strict),
		exportFormat: export.FormatText,
	}
	if cfg != nil {
		h.ingredients = ingredient.NewParser(cfg.UnitPolicy())
		if f, err := export.ParseFormat(cfg.Export.Format); err == nil {
			h.exportFormat = f
		}
	}

	router := gin.New()
	router.Use(Recovery(log))
	router.Use(requestid.New())
	router.Use(Logger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", h.health)
	router.GET("/units", h.units)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.search)
		recipes.POST("", BodySizeLimit(maxBodySize), h.create)
		recipes.GET("/:id", h.get)
		recipes.GET("/:id/export", h.export)
	}

	log.Debug("router ready: default export %s, units %s", h.exportFormat, h.ingredients.Policy())
	return router
}

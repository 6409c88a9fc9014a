package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry/backend/internal/service"
)

const version = "v1.0.0"

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	catalog *service.Catalog
	db      HealthChecker
}

func NewHealthHandler(catalog *service.Catalog, db HealthChecker) *HealthHandler {
	return &HealthHandler{catalog: catalog, db: db}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status, code, database := "healthy", http.StatusOK, "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.HealthCheck(ctx); err != nil {
			status, code, database = "degraded", http.StatusServiceUnavailable, "unavailable"
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"message":  "Pantry API is running",
		"version":  version,
		"recipes":  h.catalog.Len(),
		"database": database,
	})
}

// Index is the service banner
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "pantry",
		"version": version,
		"endpoints": []string{
			"/api/recipes?ingredients=",
			"/api/recipe/:id",
			"/api/spices",
			"/images/:filename",
			"/auth",
		},
	})
}

// Handlers groups everything RegisterRoutes mounts
type Handlers struct {
	Health *HealthHandler
	Recipe *RecipeHandler
	Auth   *AuthHandler
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router gin.IRoutes, h Handlers) {
	router.GET("/", Index)
	router.GET("/health", h.Health.HealthCheck)
	router.GET("/api/health", h.Health.HealthCheck)

	h.Recipe.RegisterRoutes(router)
	h.Auth.RegisterRoutes(router)
}

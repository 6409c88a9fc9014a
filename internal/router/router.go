package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/api"
	"github.com/pageza/pantry/backend/internal/metrics"
	"github.com/pageza/pantry/backend/internal/middleware"
)

// Options configures the engine built by SetupRouter
type Options struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	// StaticDir is served under /static when set
	StaticDir   string
	Environment config.Environment
	Debug       bool
}

// GinMode picks the gin mode for an environment. Debug output is only
// enabled for local development with debug on.
func GinMode(env config.Environment, debug bool) string {
	switch {
	case env.IsAutomated():
		return gin.TestMode
	case env.IsProduction() || !debug:
		return gin.ReleaseMode
	default:
		return gin.DebugMode
	}
}

// SetupRouter configures the application routes
func SetupRouter(opts Options, handlers api.Handlers) *gin.Engine {
	gin.SetMode(GinMode(opts.Environment, opts.Debug))
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", opts.Metrics.Handler())
	}
	if opts.StaticDir != "" {
		router.Static("/static", opts.StaticDir)
	}

	api.RegisterRoutes(router, handlers)
	return router
}

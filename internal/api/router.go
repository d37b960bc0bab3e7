package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/handlers"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/middleware"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/metrics"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Options configures the HTTP server.
type Options struct {
	// Origins allowed by CORS. Empty allows any origin.
	Origins []string
	// ResultTTL is how long optimize and scenario results stay retrievable.
	ResultTTL time.Duration
}

// Server holds the router and the result caches behind it.
type Server struct {
	Router *gin.Engine

	optimizers *handlers.OptimizerHandler
	scenarios  *handlers.ScenarioHandler
}

// NewServer wires routes and middleware around p.
func NewServer(p *planner.Planner, log zerolog.Logger, opts Options) *Server {
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = time.Hour
	}

	router := gin.New()
	router.Use(middleware.CORS(opts.Origins...))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	s := &Server{
		Router:     router,
		optimizers: handlers.NewOptimizerHandler(p, opts.ResultTTL),
		scenarios:  handlers.NewScenarioHandler(p, opts.ResultTTL),
	}
	presetHandler := handlers.NewPresetHandler()
	playerHandler := handlers.NewPlayerHandler(p)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/presets", presetHandler.ListPresets)
		v1.GET("/players", playerHandler.ListPlayers)

		v1.GET("/optimizers", s.optimizers.ListOptimizers)
		v1.POST("/optimize", s.optimizers.Optimize)

		v1.POST("/scenarios", s.scenarios.RunScenarios)
		v1.GET("/scenarios/:id", s.scenarios.GetScenario)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return s
}

// Janitor evicts expired results every interval until ctx is done.
func (s *Server) Janitor(ctx context.Context, interval time.Duration) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.optimizers.Cache().Run(ctx, interval)
	}()
	go func() {
		defer wg.Done()
		s.scenarios.Cache().Run(ctx, interval)
	}()
	wg.Wait()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/config"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // best-effort

	log := util.NewLogger(os.Getenv("LOG_LEVEL"))

	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.Default()
	if path := os.Getenv("FFBO_CONFIG"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			util.LogError(log, "failed to load config", err)
			os.Exit(1)
		}
		cfg = c
	} else {
		log.Warn().Msg("FFBO_CONFIG not set, market endpoints need input files")
	}

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			origins = append(origins, strings.TrimSpace(o))
		}
	}

	p := planner.New(cfg, log)
	if cfg.Data.Projections != nil {
		// Load at startup so input problems show up before the first request.
		if players, rep, err := p.Market(); err != nil {
			util.LogError(log, "failed to build market", err)
		} else {
			log.Info().Int("players", len(players)).Int("unresolved", len(rep.Unresolved)).Msg("market ready")
		}
	}

	srv := api.NewServer(p, log, api.Options{Origins: origins, ResultTTL: time.Hour})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.Janitor(ctx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			util.LogError(log, "shutdown failed", err)
		}
	}()

	log.Info().Str("addr", httpServer.Addr).Msg("starting API server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		util.LogError(log, "failed to start server", err)
		os.Exit(1)
	}
}

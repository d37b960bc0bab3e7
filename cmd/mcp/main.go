package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/config"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/mcptools"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/util"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	_ = godotenv.Load() // best-effort

	var (
		addr       = flag.String("addr", "", "HTTP listen address; empty serves MCP over stdio")
		mcpPath    = flag.String("path", "/mcp", "HTTP path for MCP endpoint")
		configPath = flag.String("config", os.Getenv("FFBO_CONFIG"), "path to YAML or TOML config")
		logLevel   = flag.String("log-level", os.Getenv("LOG_LEVEL"), "log level")
	)
	flag.Parse()

	log := util.NewLogger(*logLevel)

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			util.LogError(log, "failed to load config", err)
			os.Exit(1)
		}
		cfg = c
	}

	server := mcptools.New(planner.New(cfg, log), log).NewServer(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *addr == "" {
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			util.LogError(log, "stdio server failed", err)
			os.Exit(1)
		}
		return
	}

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle(*mcpPath, handler)

	httpServer := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Info().Str("addr", *addr).Str("path", *mcpPath).Msg("MCP HTTP server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		util.LogError(log, "http server failed", err)
		os.Exit(1)
	}
}

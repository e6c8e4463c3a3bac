package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagnerlima/kg-notebook/internal/server"
	"github.com/wagnerlima/kg-notebook/internal/storage"
)

func main() {
	// A .env file is optional; flags and real env vars win.
	godotenv.Load()

	defaultDataDir := os.Getenv("KG_NOTEBOOK_DATA_DIR")
	if defaultDataDir == "" {
		defaultDataDir = "./data"
	}

	transport := flag.String("transport", "stdio", "Transport mode: stdio or http")
	port := flag.String("port", "8081", "HTTP port (only used with --transport http)")
	dataDir := flag.String("data-dir", defaultDataDir, "Directory for the notebook registry and markdown documents")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Stdio transport owns stdout, so logs go to stderr.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	meta, err := storage.OpenMeta(*dataDir)
	if err != nil {
		logger.Fatal("Failed to open notebook registry", "err", err)
	}
	defer meta.Close()

	srv := server.New(meta)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *transport {
	case "stdio":
		logger.Info("Knowledge graph notebook server starting", "transport", "stdio", "data_dir", *dataDir)
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			logger.Fatal("Server error", "err", err)
		}
	case "http":
		addr := ":" + *port
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		logger.Info("Knowledge graph notebook server listening", "addr", addr, "data_dir", *dataDir)
		if err := http.ListenAndServe(addr, handler); err != nil {
			logger.Fatal("HTTP server error", "err", err)
		}
	default:
		logger.Fatal("Unknown transport (use stdio or http)", "transport", *transport)
	}
}

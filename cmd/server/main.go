package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/stylelens/internal/config"
	"github.com/nfrund/stylelens/internal/logging"
	"github.com/nfrund/stylelens/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		// The logger is not configured yet; the default handler prints to stderr.
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	s, err := server.Build(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	if err := s.Start(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

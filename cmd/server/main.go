// Package main is the entry point for the bloglist API server.
//
// The main package stays minimal — its job is to:
//  1. Read configuration from the environment
//  2. Create dependencies (logger, server)
//  3. Start the application
//
// All actual logic lives in imported packages (internal/server and below).
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/bloglist/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// PORT defaults to 3003; the rest of the config has no safe default.
	port := 3003
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// DB_PATH overrides the default database location, e.g. for deployments:
	// DB_PATH=/var/lib/bloglist/prod.db
	dbPath := "data/bloglist.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// os.MkdirAll creates parent directories as needed (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// SECRET signs and verifies every token, so the server refuses to start
	// without it. Use a long random string:
	//   SECRET=$(openssl rand -hex 32)
	secret := os.Getenv("SECRET")
	if secret == "" {
		logger.Error("SECRET not set — refusing to start without a signing secret")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:   port,
		DBPath: dbPath,
		Secret: secret,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

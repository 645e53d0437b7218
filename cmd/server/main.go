// Package main is the entry point for the jobs API server.
//
// Its job is deliberately small: load configuration, build the logger, and
// hand everything to internal/server. All actual logic lives in the
// internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Pvayush/TexasInterns/internal/server"
)

func main() {
	// A local .env file is convenient in development; in production the
	// variables come from the environment and the file simply isn't there.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/jobs.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string:
	//   JWT_SECRET=$(openssl rand -hex 32)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// JWT_LIFETIME is the session token expiry, e.g. "720h". Unset means
	// the default of 30 days.
	var tokenLifetime time.Duration
	if lifetimeStr := os.Getenv("JWT_LIFETIME"); lifetimeStr != "" {
		var err error
		tokenLifetime, err = time.ParseDuration(lifetimeStr)
		if err != nil {
			logger.Error("invalid JWT_LIFETIME value", slog.String("value", lifetimeStr))
			os.Exit(1)
		}
	}

	srv, err := server.New(server.Config{
		Port:          port,
		DBPath:        dbPath,
		JWTSecret:     jwtSecret,
		TokenLifetime: tokenLifetime,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

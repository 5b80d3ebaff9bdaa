// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package main is the entry point of the FoodAI server.
//
// FoodAI is a restaurant reservation analytics backend. It turns raw
// reservation history into a Spanish-language insights report per
// restaurant, trains an outcome classifier over the full history,
// recommends high-success booking slots, and handles validated
// reservation reschedules with email notifications.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 sources (defaults, YAML, env)
//  2. Storage: PostgREST client or direct Postgres, per storage.driver
//  3. Model artifacts: BadgerDB store for the trained classifier
//  4. Services: insights, classifier, recommender, email forwarder
//  5. HTTP server: Chi router with graceful shutdown on SIGINT/SIGTERM
//
// A .env file in the working directory is loaded before configuration
// so local development mirrors the deployed environment.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/foodai/internal/api"
	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/insights"
	"github.com/tomtom215/foodai/internal/logging"
	"github.com/tomtom215/foodai/internal/mailer"
	"github.com/tomtom215/foodai/internal/ml"
	"github.com/tomtom215/foodai/internal/recommend"
	"github.com/tomtom215/foodai/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage_driver", cfg.Storage.Driver).
		Str("model_path", cfg.Model.Path).
		Msg("Starting FoodAI")

	var store storage.Store
	switch cfg.Storage.Driver {
	case "postgres":
		pg, err := storage.NewPostgresStore(&cfg.Storage)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to connect to Postgres")
		}
		defer func() {
			if err := pg.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing Postgres pool")
			}
		}()
		store = pg
	default:
		store = storage.NewPostgRESTClient(&cfg.Storage)
	}

	if err := store.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Storage collaborator unreachable at startup (will retry per request)")
	} else {
		logging.Info().Msg("Storage collaborator reachable")
	}

	artifacts, err := ml.NewBadgerStore(cfg.Model.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Model.Path).Msg("Failed to open model artifact store")
	}
	defer func() {
		if err := artifacts.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing model artifact store")
		}
	}()

	handler := api.New(
		cfg,
		store,
		insights.NewService(store),
		ml.NewService(store, artifacts, cfg.Model),
		recommend.NewEngine(store, cfg.Recommend),
		mailer.NewClient(&cfg.Email),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	} else {
		logging.Info().Msg("Server stopped cleanly")
	}
}

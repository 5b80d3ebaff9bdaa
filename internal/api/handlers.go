// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package api provides the HTTP handlers and router of the FoodAI
// service.
package api

import (
	"time"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/insights"
	"github.com/tomtom215/foodai/internal/mailer"
	"github.com/tomtom215/foodai/internal/ml"
	"github.com/tomtom215/foodai/internal/recommend"
	"github.com/tomtom215/foodai/internal/storage"
)

// Handler bundles the service dependencies of every endpoint. All
// collaborators are injected; nothing here is a singleton.
type Handler struct {
	cfg       *config.Config
	store     storage.Store
	insights  *insights.Service
	ml        *ml.Service
	recommend *recommend.Engine
	mailer    mailer.Sender
	startedAt time.Time
	now       func() time.Time
}

// New creates the API handler set.
func New(
	cfg *config.Config,
	store storage.Store,
	insightsService *insights.Service,
	mlService *ml.Service,
	recommendEngine *recommend.Engine,
	sender mailer.Sender,
) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     store,
		insights:  insightsService,
		ml:        mlService,
		recommend: recommendEngine,
		mailer:    sender,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// WithClock overrides the handler clock.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package insights builds the per-restaurant predictive report: it pulls
// a fresh reservation snapshot from storage, normalizes it, resolves the
// restaurant's operating context, and runs the seven indicator
// generators. Nothing derived here is cached or persisted.
package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/foodai/internal/logging"
	"github.com/tomtom215/foodai/internal/metrics"
	"github.com/tomtom215/foodai/internal/models"
	"github.com/tomtom215/foodai/internal/storage"
)

// ErrNoReservations signals that the restaurant has no reservation
// history to analyze. The API layer maps it to a not-found response.
var ErrNoReservations = errors.New("no reservations registered for this restaurant")

// Service generates insight reports. The clock is injectable so reports
// over unchanged data are reproducible in tests.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// NewService creates an insights service backed by the given store.
func NewService(store storage.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GenerateInsights builds the full report for one restaurant. Each
// indicator block degrades independently on sparse data; only a missing
// history fails the whole report.
func (s *Service) GenerateInsights(ctx context.Context, restaurantID string) (*models.InsightsReport, error) {
	start := time.Now()
	report, err := s.generate(ctx, restaurantID)
	metrics.InsightGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InsightGenerationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.InsightGenerationsTotal.WithLabelValues("success").Inc()
	return report, nil
}

func (s *Service) generate(ctx context.Context, restaurantID string) (*models.InsightsReport, error) {
	raw, err := s.store.FetchReservations(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("fetching reservations: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoReservations
	}

	restaurant, err := s.store.FetchRestaurant(ctx, restaurantID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("fetching restaurant: %w", err)
	}
	var meta models.RawRestaurant
	if restaurant != nil {
		meta = *restaurant
	}

	restCtx := BuildContext(meta, raw)
	rows := Normalize(raw, restCtx.AvgTicket)
	if len(rows) == 0 {
		return nil, ErrNoReservations
	}

	now := s.now().UTC()
	logging.Ctx(ctx).Debug().
		Str("restaurant_id", restaurantID).
		Int("raw_rows", len(raw)).
		Int("normalized_rows", len(rows)).
		Int("capacity", restCtx.Capacity).
		Float64("avg_ticket", restCtx.AvgTicket).
		Msg("Generating insight report")

	return &models.InsightsReport{
		RestaurantID:   restaurantID,
		RestaurantName: meta.Name,
		GeneratedAt:    now,
		Indicators: models.Indicators{
			DemandCapacity:   demandAndCapacity(rows, restCtx, now),
			Cancellations:    cancellationInsights(rows, now),
			TimingBehavior:   timingBehavior(rows, now),
			Economics:        economicPredictions(rows, restCtx, now),
			Segmentation:     segmentation(rows),
			Operations:       operationalAlerts(rows, restCtx),
			TrendSeasonality: trendAndSeasonality(rows),
		},
	}, nil
}

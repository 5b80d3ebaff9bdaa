// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package ml trains and serves the reservation-outcome classifier: a
// pure-Go random forest over restaurant, hour, weekday, and party-size
// features, persisted with its two label encoders as a single atomic
// artifact set.
package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/logging"
	"github.com/tomtom215/foodai/internal/metrics"
	"github.com/tomtom215/foodai/internal/models"
	"github.com/tomtom215/foodai/internal/storage"
)

// ErrNoTrainingData signals that no usable rows survived preparation.
var ErrNoTrainingData = errors.New("no valid data to train on")

// unknownStatus is returned when a predicted class cannot be decoded.
const unknownStatus = "desconocido"

// Service owns the outcome classifier lifecycle: training from the full
// reservation history and serving predictions from the persisted
// artifacts. Prediction reloads the artifacts on every call, so it always
// sees the latest completed training run.
type Service struct {
	store     storage.Store
	artifacts ArtifactStore
	cfg       config.ModelConfig
	now       func() time.Time
}

// NewService creates the classifier service.
func NewService(store storage.Store, artifacts ArtifactStore, cfg config.ModelConfig) *Service {
	return &Service{store: store, artifacts: artifacts, cfg: cfg, now: time.Now}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// trainingRow is one prepared sample.
type trainingRow struct {
	restaurantID string
	status       string
	hour         int
	weekday      int
	guests       int
}

// Train fits the classifier on the full reservation history and persists
// the artifacts. Business-rule failures come back as errors for the API
// layer to shape; nothing panics past this boundary.
func (s *Service) Train(ctx context.Context) (*models.TrainResult, error) {
	start := time.Now()
	result, err := s.train(ctx)
	metrics.ModelTrainingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelTrainingsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ModelTrainingsTotal.WithLabelValues("success").Inc()
	return result, nil
}

func (s *Service) train(ctx context.Context) (*models.TrainResult, error) {
	raw, err := s.store.FetchAllReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching training data: %w", err)
	}

	rows := prepareRows(raw)
	if len(rows) == 0 {
		return nil, ErrNoTrainingData
	}

	statusEncoder := &LabelEncoder{}
	restaurantEncoder := &LabelEncoder{}
	statuses := make([]string, 0, len(rows))
	restaurants := make([]string, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, row.status)
		restaurants = append(restaurants, row.restaurantID)
	}
	statusEncoder.Fit(statuses)
	restaurantEncoder.Fit(restaurants)

	features := make([][]float64, 0, len(rows))
	labels := make([]int, 0, len(rows))
	for _, row := range rows {
		restCode, _ := restaurantEncoder.Transform(row.restaurantID)
		statusCode, _ := statusEncoder.Transform(row.status)
		features = append(features, []float64{
			float64(restCode),
			float64(row.hour),
			float64(row.weekday),
			float64(row.guests),
		})
		labels = append(labels, statusCode)
	}

	trainIdx, testIdx := splitIndices(len(rows), s.cfg.TestFraction, int64(s.cfg.Seed))

	trainFeatures := make([][]float64, 0, len(trainIdx))
	trainLabels := make([]int, 0, len(trainIdx))
	for _, i := range trainIdx {
		trainFeatures = append(trainFeatures, features[i])
		trainLabels = append(trainLabels, labels[i])
	}

	forest := TrainForest(trainFeatures, trainLabels, len(statusEncoder.Classes), s.cfg.Estimators, int64(s.cfg.Seed))

	correct := 0
	for _, i := range testIdx {
		if forest.Predict(features[i]) == labels[i] {
			correct++
		}
	}
	accuracy := 1.0
	if len(testIdx) > 0 {
		accuracy = float64(correct) / float64(len(testIdx))
	}

	artifacts := &Artifacts{
		Model:             forest,
		StatusEncoder:     statusEncoder,
		RestaurantEncoder: restaurantEncoder,
	}
	if err := s.artifacts.Save(artifacts); err != nil {
		return nil, fmt.Errorf("persisting model artifacts: %w", err)
	}

	trainedAt := s.now().UTC()
	logging.Ctx(ctx).Info().
		Int("rows", len(rows)).
		Int("train_rows", len(trainIdx)).
		Int("test_rows", len(testIdx)).
		Int("classes", len(statusEncoder.Classes)).
		Float64("accuracy", accuracy).
		Msg("Model trained and persisted")

	return &models.TrainResult{
		Message:   "Modelo entrenado correctamente",
		Accuracy:  math.Round(accuracy*10000) / 10000,
		TrainedAt: trainedAt,
	}, nil
}

// Predict classifies a hypothetical reservation. Returns ErrNotTrained
// when no artifacts exist; unseen restaurant ids encode to the default
// class per the encoder's out-of-vocabulary policy.
func (s *Service) Predict(req models.PredictionRequest) (*models.PredictionResult, error) {
	artifacts, err := s.artifacts.Load()
	if err != nil {
		metrics.ModelPredictionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	restCode, _ := artifacts.RestaurantEncoder.Transform(req.RestaurantID)
	sample := []float64{
		float64(restCode),
		float64(req.Hour),
		float64(req.Weekday),
		float64(req.Guests),
	}

	proba := artifacts.Model.PredictProba(sample)
	best, confidence := 0, 0.0
	for c, p := range proba {
		if p > confidence {
			best, confidence = c, p
		}
	}

	status, err := artifacts.StatusEncoder.Inverse(best)
	if err != nil {
		status = unknownStatus
	}

	metrics.ModelPredictionsTotal.WithLabelValues("success").Inc()
	return &models.PredictionResult{
		PredictedStatus: status,
		Confidence:      math.Round(confidence*10000) / 10000,
		ConfidencePct:   math.Round(confidence*10000) / 100,
		Hour:            req.Hour,
		Weekday:         req.Weekday,
	}, nil
}

// prepareRows keeps reservations carrying every required field and
// derives the model features. Hour and weekday default to 0 when their
// source value does not parse.
func prepareRows(raw []models.RawReservation) []trainingRow {
	rows := make([]trainingRow, 0, len(raw))
	for i := range raw {
		r := &raw[i]
		ok := true
		for _, field := range []string{"status", "guests_count", "reservation_time", "reservation_date", "restaurant_id"} {
			if !r.Has(field) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		guests := 0
		if v, has := r.Field("guests_count"); has {
			if f, isNum := models.AsFloat(v); isNum {
				guests = int(f)
			}
		}

		rows = append(rows, trainingRow{
			restaurantID: r.RestaurantID,
			status:       r.Status,
			hour:         parseHour(r.ReservationTime),
			weekday:      parseWeekday(r.ReservationDate),
			guests:       guests,
		})
	}
	return rows
}

func parseHour(clock string) int {
	clock = strings.TrimSpace(clock)
	if len(clock) > 8 {
		clock = clock[:8]
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if ts, err := time.Parse(layout, clock); err == nil {
			return ts.Hour()
		}
	}
	return 0
}

func parseWeekday(date string) int {
	ts, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return 0
	}
	return (int(ts.Weekday()) + 6) % 7
}

// splitIndices shuffles 0..n-1 with the given seed and carves off the
// test fraction (rounded up, at least one row kept for training).
func splitIndices(n int, testFraction float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)

	testSize := int(math.Ceil(float64(n) * testFraction))
	if testSize >= n {
		testSize = n - 1
	}
	if testSize < 0 {
		testSize = 0
	}
	return indices[testSize:], indices[:testSize]
}

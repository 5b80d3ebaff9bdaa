// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package metrics provides Prometheus instrumentation for the API surface,
// the storage collaborator, insight generation and model training.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodai_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodai_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodai_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Storage collaborator metrics

	StorageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodai_storage_request_duration_seconds",
			Help:    "Duration of storage collaborator calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodai_storage_errors_total",
			Help: "Total number of storage collaborator failures",
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "foodai_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Insight pipeline metrics

	InsightGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodai_insight_generation_duration_seconds",
			Help:    "Duration of full insight report generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	InsightGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodai_insight_generations_total",
			Help: "Total number of insight report generations",
		},
		[]string{"outcome"},
	)

	// Model metrics

	ModelTrainingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodai_model_trainings_total",
			Help: "Total number of model training runs",
		},
		[]string{"outcome"},
	)

	ModelTrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodai_model_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ModelPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodai_model_predictions_total",
			Help: "Total number of outcome predictions",
		},
		[]string{"outcome"},
	)

	// Email metrics

	EmailForwardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodai_email_forwards_total",
			Help: "Total number of emails forwarded to the provider",
		},
		[]string{"outcome"},
	)
)

// RecordAPIRequest records one served API request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStorageRequest records one storage collaborator call.
func RecordStorageRequest(operation string, duration time.Duration, err error) {
	StorageRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StorageErrors.WithLabelValues(operation).Inc()
	}
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/foodai/internal/middleware"
)

// Router builds the full HTTP handler: middleware stack, operational
// endpoints and the versioned API surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if !h.cfg.Security.RateLimitDisabled {
		reqs := h.cfg.Security.RateLimitReqs
		window := h.cfg.Security.RateLimitWindow
		if reqs <= 0 {
			reqs = 100
		}
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(reqs, window))
	}

	// Operational endpoints stay outside the versioned surface.
	r.Get("/health", h.HealthCheck)
	r.Get("/health/live", h.LivenessCheck)
	r.Get("/health/ready", h.ReadinessCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/restaurants/{id}/insights", h.GetRestaurantInsights)

		r.Post("/ai/train", h.TrainModel)
		r.Get("/ai/predict", h.PredictOutcome)
		r.Get("/ai/recommend", h.RecommendSlots)

		r.Get("/analytics/summary", h.GetSummary)
		r.Get("/analytics/most-booked", h.GetMostBooked)
		r.Post("/predict/demand", h.PredictDemand)

		r.Put("/reservations/{id}/reschedule", h.RescheduleReservation)
		r.Get("/reservations/{id}/availability", h.CheckAvailability)

		r.Post("/email/send", h.SendEmail)
	})

	return r
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

import (
	"context"
	"net/http"
	"time"
)

// healthResponse is the liveness/readiness payload.
type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Storage       string  `json:"storage,omitempty"`
}

// HealthCheck reports basic liveness and uptime.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
	}, start)
}

// LivenessCheck always succeeds while the process serves requests.
func (h *Handler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, healthResponse{Status: "alive"}, start)
}

// ReadinessCheck verifies the storage collaborator is reachable.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, codeUpstream,
			"Storage collaborator is not reachable", err)
		return
	}

	respondSuccess(w, http.StatusOK, healthResponse{
		Status:        "ready",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		Storage:       "ok",
	}, start)
}

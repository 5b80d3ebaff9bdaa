// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/foodai/internal/insights"
	"github.com/tomtom215/foodai/internal/storage"
)

// GetRestaurantInsights serves the full predictive report for one
// restaurant.
func (h *Handler) GetRestaurantInsights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	restaurantID := chi.URLParam(r, "id")
	if restaurantID == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "restaurant id is required", nil)
		return
	}

	report, err := h.insights.GenerateInsights(r.Context(), restaurantID)
	if err != nil {
		switch {
		case errors.Is(err, insights.ErrNoReservations):
			respondError(w, http.StatusNotFound, codeNotFound,
				"No hay reservaciones registradas para este restaurante", nil)
		case isUpstream(err):
			respondError(w, http.StatusBadGateway, codeUpstream,
				"Storage collaborator failed", err)
		default:
			respondError(w, http.StatusInternalServerError, codeInternal,
				"Failed to generate insights", err)
		}
		return
	}

	respondSuccess(w, http.StatusOK, report, start)
}

func isUpstream(err error) bool {
	var upstream *storage.UpstreamError
	return errors.As(err, &upstream)
}

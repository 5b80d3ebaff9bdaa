// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/tomtom215/foodai/internal/models"
	"github.com/tomtom215/foodai/internal/storage"
)

// GetSummary aggregates reservation totals by status and the average
// party size.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	reservations, err := h.store.FetchAllReservations(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstream, "Storage collaborator failed", err)
		return
	}
	if len(reservations) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "No hay reservaciones registradas.", nil)
		return
	}

	summary := models.ReservationSummary{TotalReservations: len(reservations)}
	totalGuests := 0.0
	for i := range reservations {
		switch reservations[i].Status {
		case "confirmed":
			summary.Confirmed++
		case "completed":
			summary.Completed++
		case "cancelled":
			summary.Cancelled++
		}
		if v, ok := reservations[i].Field("guests_count"); ok {
			if f, ok := models.AsFloat(v); ok {
				totalGuests += f
			}
		}
	}
	summary.AverageGuests = math.Round(totalGuests/float64(len(reservations))*100) / 100

	respondSuccess(w, http.StatusOK, summary, start)
}

// GetMostBooked returns the restaurant with the most reservations plus
// its metadata.
func (h *Handler) GetMostBooked(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	reservations, err := h.store.FetchAllReservations(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstream, "Storage collaborator failed", err)
		return
	}

	counts := make(map[string]int)
	for i := range reservations {
		if reservations[i].RestaurantID != "" {
			counts[reservations[i].RestaurantID]++
		}
	}
	if len(counts) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound,
			"No hay datos válidos de restaurantes en las reservaciones.", nil)
		return
	}

	bestID, bestCount := "", 0
	for id, count := range counts {
		if count > bestCount || (count == bestCount && id < bestID) {
			bestID, bestCount = id, count
		}
	}

	result := models.MostBookedRestaurant{
		RestaurantID:      bestID,
		Name:              "Desconocido",
		TotalReservations: bestCount,
	}
	restaurant, err := h.store.FetchRestaurant(r.Context(), bestID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusBadGateway, codeUpstream, "Storage collaborator failed", err)
		return
	}
	if restaurant != nil {
		result.Name = restaurant.Name
		result.City = restaurant.City
		result.CuisineType = restaurant.CuisineType
		if rating, ok := restaurant.Rating(); ok {
			result.Rating = &rating
		}
	}

	respondSuccess(w, http.StatusOK, result, start)
}

// PredictDemand applies the simple weekday/holiday/temperature demand
// heuristic.
func (h *Handler) PredictDemand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DemandRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	demand := 100.0 - float64(req.DayOfWeek)*5
	if req.IsHoliday {
		demand *= 1.2
	}
	if req.TemperatureC != nil {
		demand += (*req.TemperatureC - 25) * 1.5
	}
	demand = math.Max(demand, 0)

	respondSuccess(w, http.StatusOK, models.DemandResponse{Demand: demand}, start)
}

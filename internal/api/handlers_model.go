// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/foodai/internal/ml"
	"github.com/tomtom215/foodai/internal/models"
)

// TrainModel fits the outcome classifier on the full reservation history
// and persists the artifacts.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	result, err := h.ml.Train(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, ml.ErrNoTrainingData):
			respondError(w, http.StatusUnprocessableEntity, codeDataValidation,
				"No hay datos válidos para entrenar o analizar.", nil)
		case isUpstream(err):
			respondError(w, http.StatusBadGateway, codeUpstream,
				"Storage collaborator failed", err)
		default:
			respondError(w, http.StatusInternalServerError, codeInternal,
				"Model training failed", err)
		}
		return
	}

	respondSuccess(w, http.StatusOK, result, start)
}

// PredictOutcome classifies a hypothetical reservation from query
// parameters.
func (h *Handler) PredictOutcome(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := models.PredictionRequest{
		RestaurantID: r.URL.Query().Get("restaurant_id"),
		Guests:       getIntParam(r, "guests", 2),
		Hour:         getIntParam(r, "hour", 20),
		Weekday:      getIntParam(r, "weekday", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	result, err := h.ml.Predict(req)
	if err != nil {
		if errors.Is(err, ml.ErrNotTrained) {
			respondError(w, http.StatusConflict, codeNotTrained,
				"El modelo aún no ha sido entrenado.", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal,
			"Prediction failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, result, start)
}

// RecommendSlots returns the top restaurant/hour suggestions.
func (h *Handler) RecommendSlots(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	topN := getIntParam(r, "top_n", h.cfg.Recommend.TopN)

	result, err := h.recommend.Recommend(r.Context(), topN)
	if err != nil {
		if isUpstream(err) {
			respondError(w, http.StatusBadGateway, codeUpstream,
				"Storage collaborator failed", err)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal,
			"Recommendation failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, result, start)
}

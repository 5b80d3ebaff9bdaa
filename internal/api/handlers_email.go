// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/foodai/internal/mailer"
	"github.com/tomtom215/foodai/internal/models"
)

// SendEmail proxies an HTML email to the configured provider. Provider
// status codes pass through so callers can distinguish rejection kinds.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.EmailRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	result, err := h.mailer.Send(r.Context(), req)
	if err != nil {
		var provErr *mailer.ProviderError
		if errors.As(err, &provErr) && provErr.StatusCode >= 400 {
			respondError(w, provErr.StatusCode, codeUpstream, "Email provider rejected the request", err)
			return
		}
		respondError(w, http.StatusBadGateway, codeUpstream, "Email provider unavailable", err)
		return
	}

	respondSuccess(w, http.StatusOK, result, start)
}

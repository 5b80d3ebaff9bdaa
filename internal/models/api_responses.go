// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS float64   `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured details.
//
// Error codes map the domain error taxonomy onto the wire:
//   - VALIDATION_ERROR: malformed input at the HTTP boundary
//   - DATA_VALIDATION_ERROR: required fields missing / empty cleaned dataset
//   - NOT_FOUND: unknown restaurant id or no reservations
//   - MODEL_NOT_TRAINED: prediction requested before training
//   - UPSTREAM_ERROR: storage or email collaborator failure
//   - CONFLICT: business-rule conflict (e.g. fully booked slot)
//   - INTERNAL_ERROR: unexpected fault
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

// API error codes. The domain taxonomy (data validation, not found, model
// not trained, upstream) maps onto these plus the protocol-level
// VALIDATION_ERROR for malformed input.
const (
	codeValidation     = "VALIDATION_ERROR"
	codeDataValidation = "DATA_VALIDATION_ERROR"
	codeNotFound       = "NOT_FOUND"
	codeNotTrained     = "MODEL_NOT_TRAINED"
	codeUpstream       = "UPSTREAM_ERROR"
	codeConflict       = "CONFLICT"
	codeInternal       = "INTERNAL_ERROR"
)

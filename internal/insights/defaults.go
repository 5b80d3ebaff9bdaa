// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

// Fallback values applied when the data cannot answer for itself. Kept
// together as a single table instead of scattered through the pipeline.
const (
	// defaultGuests replaces a missing or non-numeric party size.
	defaultGuests = 2

	// defaultCapacity applies when the restaurant declares no capacity
	// and there is no guest history to infer one from.
	defaultCapacity = 40

	// minInferredCapacity floors the capacity inferred from guest history.
	minInferredCapacity = 30

	// defaultAvgTicket is the assumed revenue per reservation (RD$) when
	// neither the restaurant nor the history carries monetary data.
	defaultAvgTicket = 1850.0

	// Lead-time substitutes, in days, when no creation timestamp exists.
	pendingLeadFallback = 1.5
	defaultLeadFallback = 2.8

	// medianLeadFallback backfills invalid lead times when no valid
	// values exist to take a median of.
	medianLeadFallback = 2.0

	// defaultCustomerLabel marks reservations without any identity field.
	defaultCustomerLabel = "Cliente"

	// noDataCity marks reservations without any location field.
	noDataCity = "Sin dato"
)

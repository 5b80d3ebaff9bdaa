// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"math"

	"github.com/tomtom215/foodai/internal/models"
)

// RestaurantContext bundles the operating parameters an insights run
// needs. Built once per request and discarded with the response.
type RestaurantContext struct {
	Restaurant models.RawRestaurant
	Capacity   int
	AvgTicket  float64
}

// BuildContext resolves capacity and average ticket for one restaurant.
// Resolution order per value: restaurant-declared field, estimate from
// reservation history, fixed default. It never fails; totally absent
// metadata just means the defaults apply.
func BuildContext(restaurant models.RawRestaurant, reservations []models.RawReservation) RestaurantContext {
	return RestaurantContext{
		Restaurant: restaurant,
		Capacity:   resolveCapacity(&restaurant, reservations),
		AvgTicket:  resolveAvgTicket(&restaurant, reservations),
	}
}

func resolveCapacity(restaurant *models.RawRestaurant, reservations []models.RawReservation) int {
	if declared, ok := restaurant.FirstNumber(models.CapacityFields); ok && declared > 0 {
		return int(declared)
	}

	var guests []float64
	for i := range reservations {
		if v, ok := reservations[i].Field("guests_count"); ok {
			if f, ok := models.AsFloat(v); ok {
				guests = append(guests, f)
			}
		}
	}
	if len(guests) == 0 {
		return defaultCapacity
	}

	inferred := quantile(guests, 0.9) * 4
	return int(math.Max(inferred, minInferredCapacity))
}

func resolveAvgTicket(restaurant *models.RawRestaurant, reservations []models.RawReservation) float64 {
	if declared, ok := restaurant.FirstNumber(models.AvgTicketFields); ok && declared > 0 {
		return declared
	}

	for _, column := range models.MonetaryFields {
		var amounts []float64
		for i := range reservations {
			if v, ok := reservations[i].Field(column); ok {
				if f, ok := models.AsFloat(v); ok {
					amounts = append(amounts, f)
				}
			}
		}
		if len(amounts) > 0 {
			return mean(amounts)
		}
	}

	return defaultAvgTicket
}

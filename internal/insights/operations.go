// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"math"
	"sort"

	"github.com/tomtom215/foodai/internal/models"
)

// Occupancy thresholds for the operational alerts.
const (
	highPressureOccupancy = 0.85
	lowPressureOccupancy  = 0.40
)

type slotOccupancy struct {
	weekday   int
	hour      int
	occupancy float64
}

func operationalAlerts(rows []NormalizedReservation, ctx RestaurantContext) models.Operations {
	slots := slotOccupancyProfile(rows, ctx.Capacity)

	addCapacity := make([]models.CapacitySuggestion, 0, 3)
	lowDemand := make([]models.LowDemandAlert, 0, 3)
	for _, slot := range slots {
		switch {
		case slot.occupancy >= highPressureOccupancy && len(addCapacity) < 3:
			tables := int(math.Max(math.Round(slot.occupancy*10-8), 1))
			addCapacity = append(addCapacity, models.CapacitySuggestion{
				Weekday:              spanishWeekdays[slot.weekday],
				Hour:                 hourLabel(slot.hour),
				SuggestedExtraTables: tables,
			})
		case slot.occupancy <= lowPressureOccupancy && len(lowDemand) < 3:
			lowDemand = append(lowDemand, models.LowDemandAlert{
				Weekday:           spanishWeekdays[slot.weekday],
				Hour:              hourLabel(slot.hour),
				ExpectedOccupancy: round1(slot.occupancy * 100),
			})
		}
	}

	return models.Operations{
		ExtraCapacity:   addCapacity,
		LowDemandAlerts: lowDemand,
	}
}

// slotOccupancyProfile computes the mean guest count per weekday+hour
// slot divided by capacity, ordered by weekday then hour.
func slotOccupancyProfile(rows []NormalizedReservation, capacity int) []slotOccupancy {
	type slotKey struct {
		weekday int
		hour    int
	}
	sums := make(map[slotKey]float64)
	counts := make(map[slotKey]int)
	for i := range rows {
		key := slotKey{rows[i].Weekday, rows[i].Hour}
		sums[key] += float64(rows[i].GuestsCount)
		counts[key]++
	}

	denominator := math.Max(float64(capacity), 1)
	slots := make([]slotOccupancy, 0, len(sums))
	for key, sum := range sums {
		slots = append(slots, slotOccupancy{
			weekday:   key.weekday,
			hour:      key.hour,
			occupancy: sum / float64(counts[key]) / denominator,
		})
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].weekday != slots[j].weekday {
			return slots[i].weekday < slots[j].weekday
		}
		return slots[i].hour < slots[j].hour
	})
	return slots
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"sort"

	"github.com/tomtom215/foodai/internal/models"
)

func segmentation(rows []NormalizedReservation) models.Segmentation {
	planners, spontaneous := 0, 0
	totals := make(map[string]int)
	cancellations := make(map[string]int)
	for i := range rows {
		if rows[i].LeadTimeDays >= 3 {
			planners++
		}
		if rows[i].LeadTimeDays < 1 {
			spontaneous++
		}
		totals[rows[i].CustomerLabel]++
		if rows[i].IsCancelled {
			cancellations[rows[i].CustomerLabel]++
		}
	}

	premium := 0
	for customer, total := range totals {
		if total >= 3 && cancellations[customer] == 0 {
			premium++
		}
	}

	return models.Segmentation{
		CustomerSegments: models.CustomerSegments{
			Planners:    planners,
			Spontaneous: spontaneous,
			Premium:     premium,
		},
		CityGrowth: cityGrowth(rows),
	}
}

// cityGrowth ranks cities by month-over-month reservation growth between
// the latest calendar month in the data and the one before it. Only
// meaningful when more than one city is present.
func cityGrowth(rows []NormalizedReservation) []models.CityGrowth {
	cities := make(map[string]struct{})
	counts := make(map[monthKey]map[string]int)
	for i := range rows {
		cities[rows[i].CustomerCity] = struct{}{}
		month := monthOf(rows[i].Timestamp)
		if counts[month] == nil {
			counts[month] = make(map[string]int)
		}
		counts[month][rows[i].CustomerCity]++
	}
	if len(cities) <= 1 {
		return []models.CityGrowth{}
	}

	months := sortedMonths(counts)
	latest := months[len(months)-1]
	previous := counts[latest.prev()]

	growth := make([]models.CityGrowth, 0, len(counts[latest]))
	for city, latestCount := range counts[latest] {
		previousCount := previous[city]
		pct := 100.0
		if previousCount > 0 {
			pct = float64(latestCount-previousCount) / float64(previousCount) * 100
		}
		growth = append(growth, models.CityGrowth{City: city, GrowthPct: round1(pct)})
	}

	sort.Slice(growth, func(i, j int) bool {
		if growth[i].GrowthPct != growth[j].GrowthPct {
			return growth[i].GrowthPct > growth[j].GrowthPct
		}
		return growth[i].City < growth[j].City
	})
	if len(growth) > 3 {
		growth = growth[:3]
	}
	return growth
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"fmt"

	"github.com/tomtom215/foodai/internal/models"
)

func trendAndSeasonality(rows []NormalizedReservation) models.TrendSeasonality {
	months, counts := monthlyReservationSeries(rows)

	trend := 0.0
	if len(counts) >= 2 && counts[len(counts)-2] > 0 {
		last := float64(counts[len(counts)-1])
		prev := float64(counts[len(counts)-2])
		trend = (last - prev) / prev * 100
	}

	seasonality := "Sin datos suficientes"
	if len(counts) >= 3 {
		best := 0
		for i := range counts {
			if counts[i] > counts[best] {
				best = i
			}
		}
		seasonality = fmt.Sprintf(
			"Reservas máximas habituales en %s con %d reservas.",
			months[best], counts[best],
		)
	}

	return models.TrendSeasonality{
		MonthlyTrendPct:   round1(trend),
		SeasonalitySignal: seasonality,
		MaxExpectedSlot:   maxExpectedSlot(rows),
	}
}

// monthlyReservationSeries counts reservations per calendar month over a
// contiguous range from the first to the last month seen, zero months
// included.
func monthlyReservationSeries(rows []NormalizedReservation) ([]monthKey, []int) {
	if len(rows) == 0 {
		return nil, nil
	}

	perMonth := make(map[monthKey]int)
	first := monthOf(rows[0].Timestamp)
	last := first
	for i := range rows {
		month := monthOf(rows[i].Timestamp)
		perMonth[month]++
		if month.before(first) {
			first = month
		}
		if last.before(month) {
			last = month
		}
	}

	var (
		months []monthKey
		counts []int
	)
	for month := first; !last.before(month); month = month.next() {
		months = append(months, month)
		counts = append(counts, perMonth[month])
	}
	return months, counts
}

// maxExpectedSlot finds the weekday+hour slot with the highest cumulative
// guest count.
func maxExpectedSlot(rows []NormalizedReservation) models.PeakSlot {
	if len(rows) == 0 {
		return models.PeakSlot{}
	}

	var totals [7][24]float64
	for i := range rows {
		totals[rows[i].Weekday][rows[i].Hour] += float64(rows[i].GuestsCount)
	}

	bestWeekday, bestHour, bestTotal := 0, 0, -1.0
	for weekday := 0; weekday < 7; weekday++ {
		for hour := 0; hour < 24; hour++ {
			if totals[weekday][hour] > bestTotal {
				bestWeekday, bestHour, bestTotal = weekday, hour, totals[weekday][hour]
			}
		}
	}

	return models.PeakSlot{
		Weekday: spanishWeekdays[bestWeekday],
		Hour:    hourLabel(bestHour),
	}
}

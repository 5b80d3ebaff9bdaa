// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"sort"
	"time"

	"github.com/tomtom215/foodai/internal/models"
)

func timingBehavior(rows []NormalizedReservation, now time.Time) models.TimingBehavior {
	leads := make([]float64, 0, len(rows))
	for i := range rows {
		leads = append(leads, rows[i].LeadTimeDays)
	}

	return models.TimingBehavior{
		AverageLeadTimeDays:      round2(mean(leads)),
		LeadTimeTrendVsLastMonth: round1(leadTimeTrend(rows, now)),
		PopularBookingWindows:    popularBookingWindows(rows),
	}
}

// leadTimeTrend compares the mean lead time of the last 30 days against
// the 30 days before that. Either window empty means no trend.
func leadTimeTrend(rows []NormalizedReservation, now time.Time) float64 {
	recentCut := now.AddDate(0, 0, -30)
	previousCut := recentCut.AddDate(0, 0, -30)

	var recent, previous []float64
	for i := range rows {
		ts := rows[i].Timestamp
		switch {
		case !ts.Before(recentCut):
			recent = append(recent, rows[i].LeadTimeDays)
		case !ts.Before(previousCut):
			previous = append(previous, rows[i].LeadTimeDays)
		}
	}

	if len(recent) == 0 || len(previous) == 0 {
		return 0
	}
	previousMean := mean(previous)
	if previousMean <= 0 {
		return 0
	}
	return (mean(recent) - previousMean) / previousMean * 100
}

// popularBookingWindows lists the three most frequent reservation hours
// with their share of total volume.
func popularBookingWindows(rows []NormalizedReservation) []models.BookingWindow {
	if len(rows) == 0 {
		return []models.BookingWindow{}
	}

	counts := make(map[int]int)
	for i := range rows {
		counts[rows[i].Hour]++
	}

	hours := make([]int, 0, len(counts))
	for hour := range counts {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > 3 {
		hours = hours[:3]
	}

	windows := make([]models.BookingWindow, 0, len(hours))
	for _, hour := range hours {
		windows = append(windows, models.BookingWindow{
			Hour:       hourLabel(hour),
			Percentage: round1(float64(counts[hour]) / float64(len(rows)) * 100),
		})
	}
	return windows
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/foodai/internal/models"
)

// ewmSpan controls the smoothing window of the hourly demand series.
const ewmSpan = 6

func demandAndCapacity(rows []NormalizedReservation, ctx RestaurantContext, now time.Time) models.DemandCapacity {
	return models.DemandCapacity{
		NextPeak:        predictNextPeak(rows, ctx.Capacity, now),
		HourlyOccupancy: hourlyOccupancy(rows, ctx.Capacity),
		WeekdayDemand:   weekdayDemand(rows),
	}
}

// predictNextPeak resamples guest counts into an hourly series, smooths
// it, and projects the strongest hour forward to its next occurrence.
func predictNextPeak(rows []NormalizedReservation, capacity int, now time.Time) models.NextPeak {
	timestamps, guests := hourlyDemandSeries(rows)
	if len(guests) == 0 {
		return models.NextPeak{Message: "No hay historial suficiente para estimar el próximo pico"}
	}

	smoothed := ewma(guests, ewmSpan)

	best := 0
	for i := range smoothed {
		if smoothed[i] > smoothed[best] {
			best = i
		}
	}
	bestValue := smoothed[best]
	peak := timestamps[best]

	next := nextOccurrence(now, isoWeekday(peak), peak.Hour())
	occupancy := math.Min(1.0, bestValue/math.Max(float64(capacity), 1))

	weekdayName := spanishWeekdays[isoWeekday(next)]
	return models.NextPeak{
		Datetime:          next.Format("2006-01-02T15:04:05"),
		Weekday:           weekdayName,
		Hour:              hourLabel(next.Hour()),
		ExpectedGuests:    round1(bestValue),
		ExpectedOccupancy: round1(occupancy * 100),
		Insight: fmt.Sprintf(
			"Se espera el próximo pico el %s %s a las %s con una ocupación estimada del %.1f %%.",
			weekdayName, next.Format("02/01"), next.Format("03:04 PM"), round1(occupancy*100),
		),
	}
}

// hourlyDemandSeries sums guests into contiguous hourly buckets spanning
// the full history, empty hours included.
func hourlyDemandSeries(rows []NormalizedReservation) ([]time.Time, []float64) {
	if len(rows) == 0 {
		return nil, nil
	}

	sums := make(map[time.Time]float64, len(rows))
	first := rows[0].Timestamp.Truncate(time.Hour)
	last := first
	for i := range rows {
		bucket := rows[i].Timestamp.Truncate(time.Hour)
		sums[bucket] += float64(rows[i].GuestsCount)
		if bucket.Before(first) {
			first = bucket
		}
		if bucket.After(last) {
			last = bucket
		}
	}

	var (
		timestamps []time.Time
		guests     []float64
	)
	for bucket := first; !bucket.After(last); bucket = bucket.Add(time.Hour) {
		timestamps = append(timestamps, bucket)
		guests = append(guests, sums[bucket])
	}
	return timestamps, guests
}

// nextOccurrence finds the next future instant falling on the given
// weekday (Monday=0) at the given hour.
func nextOccurrence(now time.Time, weekday, hour int) time.Time {
	daysAhead := (weekday - isoWeekday(now) + 7) % 7
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	candidate := midnight.AddDate(0, 0, daysAhead).Add(time.Duration(hour) * time.Hour)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// hourlyOccupancy profiles all 24 hours using the mean per-day guest sum
// of each hour.
func hourlyOccupancy(rows []NormalizedReservation, capacity int) []models.HourlyOccupancy {
	if len(rows) == 0 {
		return []models.HourlyOccupancy{}
	}

	type dayHour struct {
		date string
		hour int
	}
	daySums := make(map[dayHour]float64)
	for i := range rows {
		daySums[dayHour{rows[i].DateOnly, rows[i].Hour}] += float64(rows[i].GuestsCount)
	}

	totals := make(map[int]float64)
	days := make(map[int]int)
	for key, sum := range daySums {
		totals[key.hour] += sum
		days[key.hour]++
	}

	profile := make([]models.HourlyOccupancy, 0, 24)
	for hour := 0; hour < 24; hour++ {
		guests := 0.0
		if days[hour] > 0 {
			guests = totals[hour] / float64(days[hour])
		}
		occupancy := math.Min(1.0, guests/math.Max(float64(capacity), 1))
		profile = append(profile, models.HourlyOccupancy{
			Hour:              hourLabel(hour),
			ProjectedGuests:   round1(guests),
			ExpectedOccupancy: round1(occupancy * 100),
		})
	}
	return profile
}

// weekdayDemand compares each weekday's guest volume against the 7-day
// average.
func weekdayDemand(rows []NormalizedReservation) []models.WeekdayDemand {
	var totals [7]float64
	for i := range rows {
		totals[rows[i].Weekday] += float64(rows[i].GuestsCount)
	}

	average := mean(totals[:])
	if average == 0 {
		average = 1
	}

	demand := make([]models.WeekdayDemand, 0, 7)
	for weekday, total := range totals {
		delta := total/average - 1
		demand = append(demand, models.WeekdayDemand{
			Weekday:       spanishWeekdays[weekday],
			RelativeToAvg: round1(delta * 100),
			Insight:       weekdayText(delta, weekday),
		})
	}
	return demand
}

func weekdayText(delta float64, weekday int) string {
	name := spanishWeekdays[weekday]
	switch {
	case delta >= 0.15:
		return fmt.Sprintf("%s supera el promedio semanal (+%.1f %%).", name, round1(delta*100))
	case delta <= -0.15:
		return fmt.Sprintf("%s cae %.1f %% por debajo del promedio.", name, round1(math.Abs(delta)*100))
	default:
		return fmt.Sprintf("%s se mantiene cercano al promedio semanal.", name)
	}
}

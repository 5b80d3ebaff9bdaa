// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/foodai/internal/models"
)

func economicPredictions(rows []NormalizedReservation, ctx RestaurantContext, now time.Time) models.Economics {
	multipliers := weekdayMultipliers(rows)
	base := baseDailyRevenue(rows, ctx)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	forecast := make([]models.DailyRevenue, 0, 7)
	for offset := 0; offset < 7; offset++ {
		day := today.AddDate(0, 0, offset)
		forecast = append(forecast, models.DailyRevenue{
			Date:             day.Format("2006-01-02"),
			ProjectedRevenue: round2(base * multipliers[isoWeekday(day)]),
		})
	}

	var totalRevenue float64
	totalGuests := 0
	for i := range rows {
		totalRevenue += rows[i].ExpectedRevenue
		totalGuests += rows[i].GuestsCount
	}
	if totalGuests < 1 {
		totalGuests = 1
	}

	return models.Economics{
		ExpectedRevenueNextDays: forecast,
		ExpectedTicket:          round2(totalRevenue / float64(totalGuests)),
		CancellationRisk:        cancellationImpact(rows, now),
	}
}

// weekdayMultipliers scale the daily revenue base by each weekday's share
// of total revenue.
func weekdayMultipliers(rows []NormalizedReservation) [7]float64 {
	var totals [7]float64
	for i := range rows {
		totals[rows[i].Weekday] += rows[i].ExpectedRevenue
	}

	average := mean(totals[:])
	var multipliers [7]float64
	for weekday := range multipliers {
		if average == 0 {
			multipliers[weekday] = 1.0
			continue
		}
		multipliers[weekday] = totals[weekday] / average
	}
	return multipliers
}

// baseDailyRevenue is the trailing-7-day mean of daily expected revenue,
// falling back to the overall mean and finally to capacity times the
// average ticket.
func baseDailyRevenue(rows []NormalizedReservation, ctx RestaurantContext) float64 {
	dailyTotals := make(map[string]float64)
	for i := range rows {
		dailyTotals[rows[i].DateOnly] += rows[i].ExpectedRevenue
	}

	var base float64
	if len(dailyTotals) > 0 {
		dates := make([]string, 0, len(dailyTotals))
		for date := range dailyTotals {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		if len(dates) > 7 {
			dates = dates[len(dates)-7:]
		}

		trailing := make([]float64, 0, len(dates))
		for _, date := range dates {
			trailing = append(trailing, dailyTotals[date])
		}
		base = mean(trailing)
	}

	if base == 0 {
		base = float64(ctx.Capacity) * ctx.AvgTicket
	}
	return base
}

// cancellationImpact estimates revenue at risk over the upcoming
// reservations, or the first ten when nothing is upcoming.
func cancellationImpact(rows []NormalizedReservation, now time.Time) models.CancellationImpact {
	baseline := baselineCancellationRate(rows)

	var focus []NormalizedReservation
	for i := range rows {
		if !rows[i].Timestamp.Before(now) {
			focus = append(focus, rows[i])
		}
	}
	if len(focus) == 0 {
		focus = rows
		if len(focus) > 10 {
			focus = focus[:10]
		}
	}

	var impact float64
	for i := range focus {
		impact += baseline * focus[i].ExpectedRevenue
	}

	return models.CancellationImpact{
		ProjectedLoss: round2(impact),
		Message: fmt.Sprintf(
			"Se proyecta una pérdida estimada de RD$ %s por cancelaciones probables.",
			formatThousands(impact),
		),
	}
}

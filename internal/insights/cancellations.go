// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/foodai/internal/models"
)

// riskFocusLimit caps how many reservations get an individual risk score.
const riskFocusLimit = 5

func cancellationInsights(rows []NormalizedReservation, now time.Time) models.Cancellations {
	baseline := baselineCancellationRate(rows)
	customerRates := cancellationRateByCustomer(rows)

	return models.Cancellations{
		RiskByReservation:  reservationRisks(rows, baseline, customerRates, now),
		UsersProneToCancel: proneToCancel(customerRates, baseline),
		LoyalForecast:      loyalCustomersForecast(rows),
	}
}

// baselineCancellationRate is the dataset-wide cancellation mean. A zero
// rate falls back to a nominal 5% so risk blending never collapses.
func baselineCancellationRate(rows []NormalizedReservation) float64 {
	if len(rows) == 0 {
		return 0.05
	}
	cancelled := 0
	for i := range rows {
		if rows[i].IsCancelled {
			cancelled++
		}
	}
	rate := float64(cancelled) / float64(len(rows))
	if rate == 0 {
		return 0.05
	}
	return rate
}

func cancellationRateByCustomer(rows []NormalizedReservation) map[string]float64 {
	totals := make(map[string]int)
	cancelled := make(map[string]int)
	for i := range rows {
		totals[rows[i].CustomerLabel]++
		if rows[i].IsCancelled {
			cancelled[rows[i].CustomerLabel]++
		}
	}

	rates := make(map[string]float64, len(totals))
	for customer, total := range totals {
		rates[customer] = float64(cancelled[customer]) / float64(total)
	}
	return rates
}

// reservationRisks scores the next upcoming reservations, or the most
// recent ones when nothing upcoming exists. The blended score weighs the
// dataset baseline and the customer's own history, then adjusts for lead
// time, party size, and pending status.
func reservationRisks(rows []NormalizedReservation, baseline float64, customerRates map[string]float64, now time.Time) []models.ReservationRisk {
	focus := focusReservations(rows, now)

	risks := make([]models.ReservationRisk, 0, len(focus))
	for _, row := range focus {
		history, ok := customerRates[row.CustomerLabel]
		if !ok {
			history = baseline
		}

		leadFactor := 0.0
		switch {
		case row.LeadTimeDays < 1:
			leadFactor = 0.2
		case row.LeadTimeDays > 5:
			leadFactor = -0.05
		}

		sizeFactor := 0.05
		if row.GuestsCount >= 6 {
			sizeFactor = -0.05
		}

		statusFactor := 0.0
		if row.Status == "pending" {
			statusFactor = 0.1
		}

		probability := baseline*0.4 + history*0.4 + leadFactor + sizeFactor + statusFactor
		probability = clip(probability, 0.05, 0.95)

		risks = append(risks, models.ReservationRisk{
			ReservationID: row.ID,
			Customer:      row.CustomerLabel,
			ScheduledFor:  row.Timestamp.Format("2006-01-02T15:04:05"),
			Probability:   round2(probability),
		})
	}
	return risks
}

// focusReservations picks up to five upcoming reservations in scheduled
// order, falling back to the five most recent when nothing is upcoming.
func focusReservations(rows []NormalizedReservation, now time.Time) []NormalizedReservation {
	var upcoming []NormalizedReservation
	for i := range rows {
		if !rows[i].Timestamp.Before(now) {
			upcoming = append(upcoming, rows[i])
		}
	}

	if len(upcoming) > 0 {
		sort.SliceStable(upcoming, func(i, j int) bool {
			return upcoming[i].Timestamp.Before(upcoming[j].Timestamp)
		})
		if len(upcoming) > riskFocusLimit {
			upcoming = upcoming[:riskFocusLimit]
		}
		return upcoming
	}

	recent := append([]NormalizedReservation(nil), rows...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})
	if len(recent) > riskFocusLimit {
		recent = recent[:riskFocusLimit]
	}
	return recent
}

// proneToCancel lists customers whose personal cancellation rate sits
// well above the baseline.
func proneToCancel(customerRates map[string]float64, baseline float64) []models.CustomerCancelRate {
	var prone []models.CustomerCancelRate
	for customer, rate := range customerRates {
		if rate >= baseline+0.1 {
			prone = append(prone, models.CustomerCancelRate{
				Customer:   customer,
				CancelRate: round2(rate),
			})
		}
	}

	sort.Slice(prone, func(i, j int) bool {
		if prone[i].CancelRate != prone[j].CancelRate {
			return prone[i].CancelRate > prone[j].CancelRate
		}
		return prone[i].Customer < prone[j].Customer
	})
	if len(prone) > 5 {
		prone = prone[:5]
	}
	return prone
}

// loyalCustomersForecast projects next month's count of loyal customers
// (two or more reservations within one calendar month) with a
// least-squares fit over the monthly series.
func loyalCustomersForecast(rows []NormalizedReservation) models.LoyalForecast {
	perMonthCustomer := make(map[monthKey]map[string]int)
	uniqueCustomers := make(map[string]struct{})
	for i := range rows {
		month := monthOf(rows[i].Timestamp)
		if perMonthCustomer[month] == nil {
			perMonthCustomer[month] = make(map[string]int)
		}
		perMonthCustomer[month][rows[i].CustomerLabel]++
		uniqueCustomers[rows[i].CustomerLabel] = struct{}{}
	}

	loyalByMonth := make(map[monthKey]int)
	for month, customers := range perMonthCustomer {
		for _, count := range customers {
			if count >= 2 {
				loyalByMonth[month]++
			}
		}
	}

	months := sortedMonths(loyalByMonth)
	var series []float64
	for _, month := range months {
		if loyalByMonth[month] > 0 {
			series = append(series, float64(loyalByMonth[month]))
		}
	}

	if len(series) == 0 {
		baseline := int(float64(len(uniqueCustomers)) * 0.2)
		if baseline < 1 {
			baseline = 1
		}
		return models.LoyalForecast{
			ExpectedNextMonth: baseline,
			TrendVsLastMonth:  0,
			Insight:           "Aún no hay suficientes datos; se estima una base mínima de clientes fieles.",
		}
	}

	forecast := series[len(series)-1]
	if len(series) >= 2 {
		slope, intercept := leastSquares(series)
		forecast = slope*float64(len(series)) + intercept
	}
	forecast = math.Max(forecast, 0)

	trend := 0.0
	if len(series) >= 2 && series[len(series)-2] > 0 {
		trend = (series[len(series)-1] - series[len(series)-2]) / series[len(series)-2] * 100
	}

	expected := int(math.Round(forecast))
	return models.LoyalForecast{
		ExpectedNextMonth: expected,
		TrendVsLastMonth:  round1(trend),
		Insight: fmt.Sprintf(
			"Se esperan %d clientes recurrentes el próximo mes (variación %.1f %%).",
			expected, round1(trend),
		),
	}
}

// leastSquares fits y = slope*x + intercept over x = 0..n-1.
func leastSquares(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

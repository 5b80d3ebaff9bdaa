// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"strings"
	"time"

	"github.com/tomtom215/foodai/internal/models"
)

// requiredFields must be present on a raw reservation for it to enter the
// analysis at all. Records missing any of them are dropped.
var requiredFields = []string{"status", "guests_count", "reservation_time", "reservation_date", "restaurant_id"}

// NormalizedReservation is an analysis-ready reservation. Every field is
// populated; derived rows live only for the duration of one request.
type NormalizedReservation struct {
	ID              string
	RestaurantID    string
	Timestamp       time.Time
	Weekday         int // Monday=0
	Hour            int
	DateOnly        string
	Status          string
	IsCancelled     bool
	IsConfirmed     bool
	GuestsCount     int
	LeadTimeDays    float64
	CustomerLabel   string
	ExpectedRevenue float64
	CustomerCity    string
}

// Normalize cleans and augments raw reservations into the analysis table.
// Records missing a required field or carrying an unparsable timestamp are
// dropped; an empty result is a "no data" condition for the caller, not an
// error here.
func Normalize(raw []models.RawReservation, avgTicket float64) []NormalizedReservation {
	rows := make([]NormalizedReservation, 0, len(raw))
	leadValid := make([]bool, 0, len(raw))

	for i := range raw {
		r := &raw[i]
		if !hasRequiredFields(r) {
			continue
		}

		ts, ok := parseReservationTimestamp(r.ReservationDate, r.ReservationTime)
		if !ok {
			continue
		}

		status := strings.ToLower(r.Status)
		guests := coerceGuests(r)

		row := NormalizedReservation{
			ID:           r.ID,
			RestaurantID: r.RestaurantID,
			Timestamp:    ts,
			Weekday:      isoWeekday(ts),
			Hour:         ts.Hour(),
			DateOnly:     ts.Format("2006-01-02"),
			Status:       status,
			IsCancelled:  status == "cancelled" || status == "canceled",
			IsConfirmed:  status == "confirmed" || status == "completed",
			GuestsCount:  guests,
			CustomerCity: noDataCity,
		}

		if label, ok := r.FirstString(models.CustomerIdentityFields); ok {
			row.CustomerLabel = label
		} else {
			row.CustomerLabel = defaultCustomerLabel
		}

		if amount, ok := r.FirstNumber(models.MonetaryFields); ok {
			row.ExpectedRevenue = amount
		} else {
			row.ExpectedRevenue = float64(guests) * avgTicket
		}

		if city, ok := r.FirstString(models.CityFields); ok {
			row.CustomerCity = city
		}

		lead, ok := computeLeadTime(r, ts, status)
		row.LeadTimeDays = lead
		leadValid = append(leadValid, ok)
		rows = append(rows, row)
	}

	backfillLeadTimes(rows, leadValid)
	return rows
}

func hasRequiredFields(r *models.RawReservation) bool {
	for _, field := range requiredFields {
		if !r.Has(field) {
			return false
		}
	}
	return true
}

// parseReservationTimestamp combines the date and time columns. The time
// part is truncated to HH:MM:SS before parsing.
func parseReservationTimestamp(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if len(clock) > 8 {
		clock = clock[:8]
	}

	combined := date + " " + clock
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if ts, err := time.Parse(layout, combined); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func coerceGuests(r *models.RawReservation) int {
	v, ok := r.Field("guests_count")
	if !ok {
		return defaultGuests
	}
	f, ok := models.AsFloat(v)
	if !ok {
		return defaultGuests
	}
	guests := int(f)
	if guests < 1 {
		return 1
	}
	return guests
}

// computeLeadTime derives the days between booking and the reservation
// instant. The second return value reports whether the value is usable as
// is; false means the caller should backfill it with the dataset median.
func computeLeadTime(r *models.RawReservation, ts time.Time, status string) (float64, bool) {
	created, present := r.FirstString(models.CreationTimeFields)
	if !present {
		if status == "pending" {
			return pendingLeadFallback, true
		}
		return defaultLeadFallback, true
	}

	createdTS, ok := parseCreationTimestamp(created)
	if !ok {
		return 0, false
	}
	// Negative leads stay raw here so the backfill median sees them;
	// backfillLeadTimes clips at the end.
	return ts.Sub(createdTS).Seconds() / 86400, true
}

func parseCreationTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// backfillLeadTimes replaces unusable lead times with the median of the
// valid ones, then clips everything to zero.
func backfillLeadTimes(rows []NormalizedReservation, valid []bool) {
	var validLeads []float64
	for i := range rows {
		if valid[i] {
			validLeads = append(validLeads, rows[i].LeadTimeDays)
		}
	}

	fill := medianLeadFallback
	if len(validLeads) > 0 {
		fill = median(validLeads)
	}

	for i := range rows {
		if !valid[i] {
			rows[i].LeadTimeDays = fill
		}
		if rows[i].LeadTimeDays < 0 {
			rows[i].LeadTimeDays = 0
		}
	}
}

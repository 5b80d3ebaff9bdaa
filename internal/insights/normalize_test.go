// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"math"
	"testing"

	"github.com/tomtom215/foodai/internal/models"
)

func rawReservation(overrides map[string]interface{}) models.RawReservation {
	fields := map[string]interface{}{
		"id":               "r1",
		"restaurant_id":    "rest-1",
		"reservation_date": "2026-08-10",
		"reservation_time": "19:30:00",
		"status":           "confirmed",
		"guests_count":     float64(4),
	}
	for k, v := range overrides {
		if v == nil {
			delete(fields, k)
		} else {
			fields[k] = v
		}
	}
	return models.NewRawReservation(fields)
}

func TestNormalizeDropsIncompleteRecords(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		kept      bool
	}{
		{"complete", nil, true},
		{"missing status", map[string]interface{}{"status": nil}, false},
		{"missing guests", map[string]interface{}{"guests_count": nil}, false},
		{"missing date", map[string]interface{}{"reservation_date": nil}, false},
		{"missing time", map[string]interface{}{"reservation_time": nil}, false},
		{"missing restaurant", map[string]interface{}{"restaurant_id": nil}, false},
		{"unparsable date", map[string]interface{}{"reservation_date": "not-a-date"}, false},
		{"fractional seconds trimmed", map[string]interface{}{"reservation_time": "19:30:00.123456"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Normalize([]models.RawReservation{rawReservation(tt.overrides)}, 1850)
			if kept := len(rows) == 1; kept != tt.kept {
				t.Errorf("kept = %v, want %v", kept, tt.kept)
			}
		})
	}
}

func TestNormalizeDerivedFields(t *testing.T) {
	rows := Normalize([]models.RawReservation{rawReservation(nil)}, 1850)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.Weekday != 0 { // 2026-08-10 is a Monday
		t.Errorf("Weekday = %d, want 0", row.Weekday)
	}
	if row.Hour != 19 {
		t.Errorf("Hour = %d, want 19", row.Hour)
	}
	if row.DateOnly != "2026-08-10" {
		t.Errorf("DateOnly = %q, want 2026-08-10", row.DateOnly)
	}
	if !row.IsConfirmed || row.IsCancelled {
		t.Errorf("status flags = confirmed:%v cancelled:%v, want true/false", row.IsConfirmed, row.IsCancelled)
	}
	if row.CustomerLabel != "Cliente" {
		t.Errorf("CustomerLabel = %q, want Cliente", row.CustomerLabel)
	}
	if row.CustomerCity != "Sin dato" {
		t.Errorf("CustomerCity = %q, want Sin dato", row.CustomerCity)
	}
	// No monetary column: expected revenue = guests * avg ticket.
	if row.ExpectedRevenue != 4*1850 {
		t.Errorf("ExpectedRevenue = %g, want %d", row.ExpectedRevenue, 4*1850)
	}
}

func TestNormalizeGuestsCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int
	}{
		{"numeric string", "6", 6},
		{"float", float64(3), 3},
		{"zero clipped to one", float64(0), 1},
		{"negative clipped to one", float64(-2), 1},
		{"garbage defaults", "many", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Normalize([]models.RawReservation{
				rawReservation(map[string]interface{}{"guests_count": tt.value}),
			}, 1850)
			if len(rows) != 1 {
				t.Fatalf("expected 1 row, got %d", len(rows))
			}
			if rows[0].GuestsCount != tt.want {
				t.Errorf("GuestsCount = %d, want %d", rows[0].GuestsCount, tt.want)
			}
		})
	}
}

func TestNormalizeLeadTimes(t *testing.T) {
	// Booked exactly two days before the reservation instant.
	withCreation := rawReservation(map[string]interface{}{
		"id":         "r-created",
		"created_at": "2026-08-08T19:30:00Z",
	})
	// Unparsable creation timestamp: backfilled with the dataset median.
	broken := rawReservation(map[string]interface{}{
		"id":         "r-broken",
		"created_at": "whenever",
	})
	// No creation column at all: status-based fallback.
	pending := rawReservation(map[string]interface{}{
		"id":     "r-pending",
		"status": "pending",
	})

	rows := Normalize([]models.RawReservation{withCreation, broken, pending}, 1850)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	byID := map[string]NormalizedReservation{}
	for _, r := range rows {
		byID[r.ID] = r
	}

	if got := byID["r-created"].LeadTimeDays; math.Abs(got-2.0) > 1e-9 {
		t.Errorf("lead time with creation = %g, want 2.0", got)
	}
	if got := byID["r-pending"].LeadTimeDays; got != 1.5 {
		t.Errorf("pending fallback = %g, want 1.5", got)
	}
	// Median of the two valid leads (2.0 and 1.5).
	if got := byID["r-broken"].LeadTimeDays; math.Abs(got-1.75) > 1e-9 {
		t.Errorf("backfilled lead = %g, want 1.75", got)
	}

	// A creation after the reservation clips to zero.
	late := rawReservation(map[string]interface{}{
		"created_at": "2026-08-12T10:00:00Z",
	})
	rows = Normalize([]models.RawReservation{late}, 1850)
	if rows[0].LeadTimeDays != 0 {
		t.Errorf("negative lead = %g, want 0", rows[0].LeadTimeDays)
	}
}

func TestNormalizeBackfillMedianSeesNegativeLeads(t *testing.T) {
	// Leads before clipping: 2.0 and -1.0. The backfill median must be
	// computed over the raw values (0.5), not over clipped ones (1.0).
	twoDaysAhead := rawReservation(map[string]interface{}{
		"id":         "r-early",
		"created_at": "2026-08-08T19:30:00Z",
	})
	oneDayLate := rawReservation(map[string]interface{}{
		"id":         "r-late",
		"created_at": "2026-08-11T19:30:00Z",
	})
	broken := rawReservation(map[string]interface{}{
		"id":         "r-broken",
		"created_at": "whenever",
	})

	rows := Normalize([]models.RawReservation{twoDaysAhead, oneDayLate, broken}, 1850)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	byID := map[string]NormalizedReservation{}
	for _, r := range rows {
		byID[r.ID] = r
	}

	if got := byID["r-broken"].LeadTimeDays; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("backfilled lead = %g, want 0.5", got)
	}
	// The negative lead itself still clips to zero in the final pass.
	if got := byID["r-late"].LeadTimeDays; got != 0 {
		t.Errorf("late creation lead = %g, want 0", got)
	}
}

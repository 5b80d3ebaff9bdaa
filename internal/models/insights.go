// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package models

import "time"

// InsightsReport is the full per-restaurant predictive report. All seven
// indicator blocks are always present; individual blocks degrade to an
// "insufficient data" message when the history is too sparse.
type InsightsReport struct {
	RestaurantID   string     `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name,omitempty"`
	GeneratedAt    time.Time  `json:"generated_at"`
	Indicators     Indicators `json:"indicators"`
}

// Indicators groups the seven indicator blocks.
type Indicators struct {
	DemandCapacity   DemandCapacity   `json:"demand_capacity"`
	Cancellations    Cancellations    `json:"cancellations"`
	TimingBehavior   TimingBehavior   `json:"timing_behavior"`
	Economics        Economics        `json:"economics"`
	Segmentation     Segmentation     `json:"segmentation"`
	Operations       Operations       `json:"operations"`
	TrendSeasonality TrendSeasonality `json:"trend_seasonality"`
}

// DemandCapacity covers the demand-and-capacity indicator.
type DemandCapacity struct {
	NextPeak        NextPeak          `json:"next_peak"`
	HourlyOccupancy []HourlyOccupancy `json:"hourly_occupancy"`
	WeekdayDemand   []WeekdayDemand   `json:"weekday_demand"`
}

// NextPeak is the forecasted next demand peak. When history is too thin
// only Message is set.
type NextPeak struct {
	Message           string  `json:"message,omitempty"`
	Datetime          string  `json:"datetime,omitempty"`
	Weekday           string  `json:"weekday,omitempty"`
	Hour              string  `json:"hour,omitempty"`
	ExpectedGuests    float64 `json:"expected_guests,omitempty"`
	ExpectedOccupancy float64 `json:"expected_occupancy,omitempty"`
	Insight           string  `json:"insight,omitempty"`
}

// HourlyOccupancy is one row of the 24-hour occupancy profile.
type HourlyOccupancy struct {
	Hour              string  `json:"hour"`
	ProjectedGuests   float64 `json:"projected_guests"`
	ExpectedOccupancy float64 `json:"expected_occupancy"`
}

// WeekdayDemand is one weekday's demand relative to the 7-day average.
type WeekdayDemand struct {
	Weekday       string  `json:"weekday"`
	RelativeToAvg float64 `json:"relative_to_avg"`
	Insight       string  `json:"insight"`
}

// Cancellations covers cancellation risk and customer loyalty.
type Cancellations struct {
	RiskByReservation  []ReservationRisk    `json:"cancellation_risk_by_reservation"`
	UsersProneToCancel []CustomerCancelRate `json:"users_prone_to_cancel"`
	LoyalForecast      LoyalForecast        `json:"loyal_customers_forecast"`
}

// ReservationRisk is the blended cancellation risk of one reservation.
type ReservationRisk struct {
	ReservationID string  `json:"reservation_id,omitempty"`
	Customer      string  `json:"customer"`
	ScheduledFor  string  `json:"scheduled_for"`
	Probability   float64 `json:"probability"`
}

// CustomerCancelRate is a customer whose personal cancellation rate is
// well above the baseline.
type CustomerCancelRate struct {
	Customer   string  `json:"customer"`
	CancelRate float64 `json:"cancel_rate"`
}

// LoyalForecast projects next month's count of loyal customers.
type LoyalForecast struct {
	ExpectedNextMonth int     `json:"expected_next_month"`
	TrendVsLastMonth  float64 `json:"trend_vs_last_month"`
	Insight           string  `json:"insight"`
}

// TimingBehavior covers booking lead-time behavior.
type TimingBehavior struct {
	AverageLeadTimeDays      float64         `json:"average_lead_time_days"`
	LeadTimeTrendVsLastMonth float64         `json:"lead_time_trend_vs_last_month"`
	PopularBookingWindows    []BookingWindow `json:"popular_booking_windows"`
}

// BookingWindow is one of the most frequent reservation hours.
type BookingWindow struct {
	Hour       string  `json:"hour"`
	Percentage float64 `json:"percentage"`
}

// Economics covers revenue projections.
type Economics struct {
	ExpectedRevenueNextDays []DailyRevenue     `json:"expected_revenue_next_days"`
	ExpectedTicket          float64            `json:"expected_ticket"`
	CancellationRisk        CancellationImpact `json:"economic_cancellation_risk"`
}

// DailyRevenue is the projected revenue of one forward day.
type DailyRevenue struct {
	Date             string  `json:"date"`
	ProjectedRevenue float64 `json:"projected_revenue"`
}

// CancellationImpact is the projected revenue loss to cancellations.
type CancellationImpact struct {
	ProjectedLoss float64 `json:"projected_loss"`
	Message       string  `json:"message"`
}

// Segmentation covers customer segments and city growth.
type Segmentation struct {
	CustomerSegments CustomerSegments `json:"customer_segments"`
	CityGrowth       []CityGrowth     `json:"city_growth"`
}

// CustomerSegments counts reservations/customers per behavioral segment.
type CustomerSegments struct {
	Planners    int `json:"planificadores"`
	Spontaneous int `json:"espontaneos"`
	Premium     int `json:"premium"`
}

// CityGrowth is the month-over-month reservation growth of one city.
type CityGrowth struct {
	City      string  `json:"city"`
	GrowthPct float64 `json:"growth_pct"`
}

// Operations covers per-slot occupancy alerts.
type Operations struct {
	ExtraCapacity   []CapacitySuggestion `json:"extra_capacity_recommendations"`
	LowDemandAlerts []LowDemandAlert     `json:"low_demand_alerts"`
}

// CapacitySuggestion flags a high-pressure weekday+hour slot.
type CapacitySuggestion struct {
	Weekday              string `json:"weekday"`
	Hour                 string `json:"hour"`
	SuggestedExtraTables int    `json:"suggested_extra_tables"`
}

// LowDemandAlert flags a low-occupancy weekday+hour slot.
type LowDemandAlert struct {
	Weekday           string  `json:"weekday"`
	Hour              string  `json:"hour"`
	ExpectedOccupancy float64 `json:"expected_occupancy"`
}

// TrendSeasonality covers monthly trend and seasonality.
type TrendSeasonality struct {
	MonthlyTrendPct   float64  `json:"monthly_trend_pct"`
	SeasonalitySignal string   `json:"seasonality_signal"`
	MaxExpectedSlot   PeakSlot `json:"max_expected_slot"`
}

// PeakSlot is the weekday+hour slot with the highest cumulative guests.
type PeakSlot struct {
	Weekday string `json:"weekday,omitempty"`
	Hour    string `json:"hour,omitempty"`
}

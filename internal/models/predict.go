// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package models

import "time"

// TrainResult is returned by a successful training run.
type TrainResult struct {
	Message   string    `json:"message"`
	Accuracy  float64   `json:"accuracy"`
	TrainedAt time.Time `json:"trained_at"`
}

// PredictionResult is the outcome prediction for a hypothetical
// reservation.
//
// Confidence is the maximum class probability in [0, 1]; ConfidencePct is
// the same value as a percentage for display.
type PredictionResult struct {
	PredictedStatus string  `json:"predicted_status"`
	Confidence      float64 `json:"confidence"`
	ConfidencePct   float64 `json:"confidence_pct"`
	Hour            int     `json:"hour"`
	Weekday         int     `json:"weekday"`
}

// PredictionRequest carries the outcome-prediction query parameters.
type PredictionRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	Guests       int    `json:"guests" validate:"gte=1"`
	Hour         int    `json:"hour" validate:"gte=0,lte=23"`
	Weekday      int    `json:"weekday" validate:"gte=0,lte=6"`
}

// RecommendResult is the slot-recommendation response. When the history
// holds no successful reservations only Message is set.
type RecommendResult struct {
	Message     string           `json:"message"`
	BestHour    int              `json:"best_hour,omitempty"`
	Suggestions []SlotSuggestion `json:"suggestions,omitempty"`
}

// SlotSuggestion is one recommended restaurant/hour pair.
type SlotSuggestion struct {
	Restaurant             string `json:"restaurant"`
	RecommendedHour        int    `json:"recommended_hour"`
	SuccessfulReservations int    `json:"successful_reservations"`
}

// DemandRequest is the input of the simple demand heuristic.
type DemandRequest struct {
	DayOfWeek    int      `json:"day_of_week" validate:"gte=0,lte=6"`
	IsHoliday    bool     `json:"is_holiday"`
	TemperatureC *float64 `json:"temperature_c"`
}

// DemandResponse is the heuristic demand estimate.
type DemandResponse struct {
	Demand float64 `json:"demand"`
}

// EmailRequest is the payload forwarded to the external email provider.
type EmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	HTML    string `json:"html" validate:"required"`
}

// ReservationSummary aggregates dataset-wide reservation statistics.
type ReservationSummary struct {
	TotalReservations int     `json:"total_reservations"`
	Confirmed         int     `json:"confirmed"`
	Completed         int     `json:"completed"`
	Cancelled         int     `json:"cancelled"`
	AverageGuests     float64 `json:"average_guests"`
}

// MostBookedRestaurant is the restaurant with the most reservations.
type MostBookedRestaurant struct {
	RestaurantID      string   `json:"restaurant_id"`
	Name              string   `json:"name"`
	City              string   `json:"city,omitempty"`
	CuisineType       string   `json:"cuisine_type,omitempty"`
	Rating            *float64 `json:"rating,omitempty"`
	TotalReservations int      `json:"total_reservations"`
}

// RescheduleRequest carries a reservation date/time change.
type RescheduleRequest struct {
	ReservationDate string `json:"reservation_date" validate:"required"`
	ReservationTime string `json:"reservation_time" validate:"required"`
	Reason          string `json:"reason"`
}

// RescheduleResult reports a completed reschedule.
type RescheduleResult struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	ReservationID string            `json:"reservation_id"`
	OldDatetime   ReservationMoment `json:"old_datetime"`
	NewDatetime   ReservationMoment `json:"new_datetime"`
	EmailsSent    EmailsSent        `json:"emails_sent"`
}

// ReservationMoment is a date/time pair as stored on a reservation.
type ReservationMoment struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// EmailsSent reports which reschedule notifications were dispatched.
type EmailsSent struct {
	Customer   bool `json:"customer"`
	Restaurant bool `json:"restaurant"`
}

// AvailabilityResult is the slot-availability pre-check response.
type AvailabilityResult struct {
	Available            bool   `json:"available"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
	ExistingReservations int    `json:"existing_reservations"`
	Message              string `json:"message"`
}

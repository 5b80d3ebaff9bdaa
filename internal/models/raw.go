// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package models defines the data records exchanged with the storage
// collaborator and the response types of the HTTP API.
//
// Raw records arrive as loosely-shaped JSON rows. Well-known fields are
// decoded into typed struct fields; the full row is retained so that
// concepts with several historical column names (capacity, monetary
// amount, customer identity, ...) can be resolved through explicit ordered
// alias chains instead of scattered conditionals.
package models

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Alias chains: ordered lists of accepted column names per concept. The
// first present, non-null field wins.
var (
	// CustomerIdentityFields resolve the customer label of a reservation.
	CustomerIdentityFields = []string{"customer_email", "customer_id", "customer_name", "user_id", "id_cliente"}

	// MonetaryFields resolve the billed or expected amount of a reservation.
	MonetaryFields = []string{"total_amount", "amount", "total", "bill_amount", "ticket_amount"}

	// CityFields resolve the customer's city.
	CityFields = []string{"customer_city", "city", "customer_location", "province"}

	// CreationTimeFields resolve the booking/creation timestamp.
	CreationTimeFields = []string{"created_at", "booking_date", "requested_at", "submitted_at"}

	// CapacityFields resolve a restaurant's declared seating capacity.
	CapacityFields = []string{"capacity", "seating_capacity", "max_capacity", "tables"}

	// AvgTicketFields resolve a restaurant's declared average ticket.
	AvgTicketFields = []string{"avg_ticket", "average_ticket", "ticket_average", "ticket_promedio"}
)

// record holds the decoded row and implements alias-chain lookups shared
// by RawReservation and RawRestaurant.
type record struct {
	fields map[string]interface{}
}

// Field returns the raw value of a column. A null value counts as absent.
func (r *record) Field(name string) (interface{}, bool) {
	v, ok := r.fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether a column is present with a non-null value.
func (r *record) Has(name string) bool {
	_, ok := r.Field(name)
	return ok
}

// FirstString walks an alias chain and returns the first present value
// rendered as a string.
func (r *record) FirstString(names []string) (string, bool) {
	for _, name := range names {
		if v, ok := r.Field(name); ok {
			if s, ok := AsString(v); ok {
				return s, true
			}
		}
	}
	return "", false
}

// FirstNumber walks an alias chain and returns the first present value
// coercible to a number.
func (r *record) FirstNumber(names []string) (float64, bool) {
	for _, name := range names {
		if v, ok := r.Field(name); ok {
			if f, ok := AsFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// RawReservation is a reservation row as returned by storage. Required
// analysis fields are promoted to typed fields; everything else is
// reachable through Field and the alias chains.
type RawReservation struct {
	record

	ID              string
	RestaurantID    string
	ReservationDate string
	ReservationTime string
	Status          string
}

// NewRawReservation builds a RawReservation from an already-decoded row,
// e.g. a generic SQL scan.
func NewRawReservation(fields map[string]interface{}) RawReservation {
	r := RawReservation{record: record{fields: fields}}
	r.promote()
	return r
}

// UnmarshalJSON decodes the full row and promotes the well-known fields.
func (r *RawReservation) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.fields); err != nil {
		return err
	}
	r.promote()
	return nil
}

func (r *RawReservation) promote() {
	r.ID = r.stringField("id")
	r.RestaurantID = r.stringField("restaurant_id")
	r.ReservationDate = r.stringField("reservation_date")
	r.ReservationTime = r.stringField("reservation_time")
	r.Status = r.stringField("status")
}

func (r *record) stringField(name string) string {
	if v, ok := r.Field(name); ok {
		if s, ok := AsString(v); ok {
			return s
		}
	}
	return ""
}

// RawRestaurant is a restaurant row as returned by storage.
type RawRestaurant struct {
	record

	ID          string
	Name        string
	City        string
	CuisineType string
}

// NewRawRestaurant builds a RawRestaurant from an already-decoded row.
func NewRawRestaurant(fields map[string]interface{}) RawRestaurant {
	r := RawRestaurant{record: record{fields: fields}}
	r.promote()
	return r
}

// UnmarshalJSON decodes the full row and promotes the well-known fields.
func (r *RawRestaurant) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.fields); err != nil {
		return err
	}
	r.promote()
	return nil
}

func (r *RawRestaurant) promote() {
	r.ID = r.stringField("id")
	r.Name = r.stringField("name")
	r.City = r.stringField("city")
	r.CuisineType = r.stringField("cuisine_type")
}

// Rating returns the restaurant rating when present.
func (r *RawRestaurant) Rating() (float64, bool) {
	if v, ok := r.Field("rating"); ok {
		return AsFloat(v)
	}
	return 0, false
}

// AsString renders scalar JSON values as strings. Numbers are formatted
// the compact way (no trailing zeros) so numeric identifiers remain
// usable as labels. Empty strings count as absent.
func AsString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		if s == "" {
			return "", false
		}
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

// AsFloat coerces scalar JSON values to float64. Numeric strings are
// parsed; anything else counts as absent.
func AsFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

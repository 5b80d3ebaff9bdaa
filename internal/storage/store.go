// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package storage provides the reservation storage collaborator.
//
// The Store interface is injected into every component that needs data, so
// tests can substitute a fake and no package holds a client singleton. Two
// implementations exist: a Supabase PostgREST HTTP client (default) and a
// direct Postgres client.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/foodai/internal/models"
)

// ErrNotFound indicates the requested record does not exist upstream.
var ErrNotFound = errors.New("record not found")

// UpstreamError wraps a storage collaborator failure. The analytics core
// never interprets these beyond reporting them; retries and timeouts are
// the boundary's concern.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ConflictFilter selects reservations occupying a specific slot. Used by
// the reschedule conflict check and the availability pre-check.
type ConflictFilter struct {
	RestaurantID    string
	ReservationDate string
	ReservationTime string
	Statuses        []string
	ExcludeID       string
}

// Store is the storage collaborator consumed by the analytics core and
// the HTTP handlers.
type Store interface {
	// Ping verifies upstream reachability; used by the readiness probe.
	Ping(ctx context.Context) error

	// FetchReservations returns all reservations of one restaurant.
	FetchReservations(ctx context.Context, restaurantID string) ([]models.RawReservation, error)

	// FetchAllReservations returns the full reservation history.
	FetchAllReservations(ctx context.Context) ([]models.RawReservation, error)

	// FetchReservation returns one reservation; ErrNotFound when absent.
	FetchReservation(ctx context.Context, id string) (*models.RawReservation, error)

	// FetchRestaurant returns one restaurant; ErrNotFound when absent.
	FetchRestaurant(ctx context.Context, id string) (*models.RawRestaurant, error)

	// FetchRestaurants returns all restaurants.
	FetchRestaurants(ctx context.Context) ([]models.RawRestaurant, error)

	// CountReservations counts reservations matching the filter.
	CountReservations(ctx context.Context, filter ConflictFilter) (int, error)

	// UpdateReservation patches the given fields of one reservation.
	UpdateReservation(ctx context.Context, id string, fields map[string]interface{}) error
}

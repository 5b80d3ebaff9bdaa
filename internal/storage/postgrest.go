// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/logging"
	"github.com/tomtom215/foodai/internal/metrics"
	"github.com/tomtom215/foodai/internal/models"
)

// maxErrorBodySize limits how much of an upstream error response is read
// for diagnostics.
const maxErrorBodySize = 16 * 1024 // 16KB

// PostgRESTClient talks to a Supabase PostgREST endpoint. All calls run
// through a circuit breaker so a dead upstream fails fast instead of
// tying up request handlers.
type PostgRESTClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewPostgRESTClient creates a PostgREST storage client from config.
func NewPostgRESTClient(cfg *config.StorageConfig) *PostgRESTClient {
	const breakerName = "storage-postgrest"

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // closed

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Storage circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &PostgRESTClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Ping verifies the upstream responds to a minimal query.
func (c *PostgRESTClient) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "ping", "reservations", url.Values{
		"select": {"id"},
		"limit":  {"1"},
	})
	return err
}

// FetchReservations returns all reservations of one restaurant.
func (c *PostgRESTClient) FetchReservations(ctx context.Context, restaurantID string) ([]models.RawReservation, error) {
	return c.fetchReservations(ctx, "fetch_reservations", url.Values{
		"select":        {"*"},
		"restaurant_id": {"eq." + restaurantID},
	})
}

// FetchAllReservations returns the full reservation history.
func (c *PostgRESTClient) FetchAllReservations(ctx context.Context) ([]models.RawReservation, error) {
	return c.fetchReservations(ctx, "fetch_all_reservations", url.Values{
		"select": {"*"},
	})
}

// FetchReservation returns one reservation by id.
func (c *PostgRESTClient) FetchReservation(ctx context.Context, id string) (*models.RawReservation, error) {
	rows, err := c.fetchReservations(ctx, "fetch_reservation", url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
		"limit":  {"1"},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// FetchRestaurant returns one restaurant by id.
func (c *PostgRESTClient) FetchRestaurant(ctx context.Context, id string) (*models.RawRestaurant, error) {
	body, err := c.get(ctx, "fetch_restaurant", "restaurants", url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
		"limit":  {"1"},
	})
	if err != nil {
		return nil, err
	}

	var rows []models.RawRestaurant
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &UpstreamError{Op: "fetch_restaurant", Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// FetchRestaurants returns all restaurants.
func (c *PostgRESTClient) FetchRestaurants(ctx context.Context) ([]models.RawRestaurant, error) {
	body, err := c.get(ctx, "fetch_restaurants", "restaurants", url.Values{
		"select": {"*"},
	})
	if err != nil {
		return nil, err
	}

	var rows []models.RawRestaurant
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &UpstreamError{Op: "fetch_restaurants", Err: err}
	}
	return rows, nil
}

// CountReservations counts reservations occupying the filtered slot.
func (c *PostgRESTClient) CountReservations(ctx context.Context, filter ConflictFilter) (int, error) {
	params := url.Values{"select": {"id"}}
	if filter.RestaurantID != "" {
		params.Set("restaurant_id", "eq."+filter.RestaurantID)
	}
	if filter.ReservationDate != "" {
		params.Set("reservation_date", "eq."+filter.ReservationDate)
	}
	if filter.ReservationTime != "" {
		params.Set("reservation_time", "eq."+filter.ReservationTime)
	}
	if len(filter.Statuses) > 0 {
		params.Set("status", "in.("+strings.Join(filter.Statuses, ",")+")")
	}
	if filter.ExcludeID != "" {
		params.Set("id", "neq."+filter.ExcludeID)
	}

	body, err := c.get(ctx, "count_reservations", "reservations", params)
	if err != nil {
		return 0, err
	}

	var rows []struct {
		ID interface{} `json:"id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, &UpstreamError{Op: "count_reservations", Err: err}
	}
	return len(rows), nil
}

// UpdateReservation patches the given fields of one reservation.
func (c *PostgRESTClient) UpdateReservation(ctx context.Context, id string, fields map[string]interface{}) error {
	const op = "update_reservation"

	payload, err := json.Marshal(fields)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}

	endpoint := fmt.Sprintf("%s/rest/v1/reservations?id=%s", c.baseURL, url.QueryEscape("eq."+id))

	start := time.Now()
	_, err = c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readBodyForError(resp.Body))
		}
		return nil, nil
	})
	metrics.RecordStorageRequest(op, time.Since(start), err)

	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	return nil
}

func (c *PostgRESTClient) fetchReservations(ctx context.Context, op string, params url.Values) ([]models.RawReservation, error) {
	body, err := c.get(ctx, op, "reservations", params)
	if err != nil {
		return nil, err
	}

	var rows []models.RawReservation
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	return rows, nil
}

// get performs a GET against one PostgREST table through the breaker.
func (c *PostgRESTClient) get(ctx context.Context, op, table string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, params.Encode())

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, readBodyForError(resp.Body))
		}
		return io.ReadAll(resp.Body)
	})
	metrics.RecordStorageRequest(op, time.Since(start), err)

	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	return body, nil
}

func (c *PostgRESTClient) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

// readBodyForError reads a bounded prefix of a response body for error
// reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

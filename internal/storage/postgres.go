// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/metrics"
	"github.com/tomtom215/foodai/internal/models"
)

// PostgresStore reads reservations and restaurants straight from a
// PostgreSQL database. It serves deployments that sit next to the
// database instead of going through the REST gateway.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool against the configured DSN.
func NewPostgresStore(cfg *config.StorageConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &UpstreamError{Op: "ping", Err: err}
	}
	return nil
}

// FetchReservations returns all reservations of one restaurant.
func (s *PostgresStore) FetchReservations(ctx context.Context, restaurantID string) ([]models.RawReservation, error) {
	return s.queryReservations(ctx, "fetch_reservations",
		`SELECT * FROM reservations WHERE restaurant_id = $1`, restaurantID)
}

// FetchAllReservations returns the full reservation history.
func (s *PostgresStore) FetchAllReservations(ctx context.Context) ([]models.RawReservation, error) {
	return s.queryReservations(ctx, "fetch_all_reservations", `SELECT * FROM reservations`)
}

// FetchReservation returns one reservation by id.
func (s *PostgresStore) FetchReservation(ctx context.Context, id string) (*models.RawReservation, error) {
	rows, err := s.queryReservations(ctx, "fetch_reservation",
		`SELECT * FROM reservations WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// FetchRestaurant returns one restaurant by id.
func (s *PostgresStore) FetchRestaurant(ctx context.Context, id string) (*models.RawRestaurant, error) {
	maps, err := s.queryMaps(ctx, "fetch_restaurant",
		`SELECT * FROM restaurants WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, ErrNotFound
	}
	restaurant := models.NewRawRestaurant(maps[0])
	return &restaurant, nil
}

// FetchRestaurants returns all restaurants.
func (s *PostgresStore) FetchRestaurants(ctx context.Context) ([]models.RawRestaurant, error) {
	maps, err := s.queryMaps(ctx, "fetch_restaurants", `SELECT * FROM restaurants`)
	if err != nil {
		return nil, err
	}

	restaurants := make([]models.RawRestaurant, 0, len(maps))
	for _, m := range maps {
		restaurants = append(restaurants, models.NewRawRestaurant(m))
	}
	return restaurants, nil
}

// CountReservations counts reservations occupying the filtered slot.
func (s *PostgresStore) CountReservations(ctx context.Context, filter ConflictFilter) (int, error) {
	const op = "count_reservations"

	var (
		conditions []string
		args       []interface{}
	)
	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.RestaurantID != "" {
		addCondition("restaurant_id = $%d", filter.RestaurantID)
	}
	if filter.ReservationDate != "" {
		addCondition("reservation_date = $%d", filter.ReservationDate)
	}
	if filter.ReservationTime != "" {
		addCondition("reservation_time = $%d", filter.ReservationTime)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			args = append(args, status)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.ExcludeID != "" {
		addCondition("id <> $%d", filter.ExcludeID)
	}

	query := `SELECT COUNT(*) FROM reservations`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	start := time.Now()
	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	metrics.RecordStorageRequest(op, time.Since(start), err)
	if err != nil {
		return 0, &UpstreamError{Op: op, Err: err}
	}
	return count, nil
}

// UpdateReservation patches the given fields of one reservation.
func (s *PostgresStore) UpdateReservation(ctx context.Context, id string, fields map[string]interface{}) error {
	const op = "update_reservation"

	if len(fields) == 0 {
		return nil
	}

	// Deterministic column order keeps the statement stable across calls.
	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	assignments := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns)+1)
	for _, column := range columns {
		args = append(args, fields[column])
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE reservations SET %s WHERE id = $%d`,
		strings.Join(assignments, ", "), len(args))

	start := time.Now()
	result, err := s.db.ExecContext(ctx, query, args...)
	metrics.RecordStorageRequest(op, time.Since(start), err)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) queryReservations(ctx context.Context, op, query string, args ...interface{}) ([]models.RawReservation, error) {
	maps, err := s.queryMaps(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}

	reservations := make([]models.RawReservation, 0, len(maps))
	for _, m := range maps {
		reservations = append(reservations, models.NewRawReservation(m))
	}
	return reservations, nil
}

// queryMaps runs a query and materializes every row as a column map,
// matching the loose row shape the REST gateway returns.
func (s *PostgresStore) queryMaps(ctx context.Context, op, query string, args ...interface{}) ([]map[string]interface{}, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	metrics.RecordStorageRequest(op, time.Since(start), err)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, &UpstreamError{Op: op, Err: err}
		}

		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			row[column] = normalizeSQLValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	return result, nil
}

// normalizeSQLValue converts driver values into the JSON-like shapes the
// models layer expects.
func normalizeSQLValue(v interface{}) interface{} {
	switch value := v.(type) {
	case []byte:
		return string(value)
	case time.Time:
		return value.Format(time.RFC3339)
	case int64:
		return float64(value)
	default:
		return value
	}
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/models"
	"github.com/tomtom215/foodai/internal/storage"
)

type fakeStore struct {
	reservations []models.RawReservation
	restaurants  []models.RawRestaurant
	err          error
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

func (f *fakeStore) FetchReservations(context.Context, string) ([]models.RawReservation, error) {
	return f.reservations, f.err
}

func (f *fakeStore) FetchAllReservations(context.Context) ([]models.RawReservation, error) {
	return f.reservations, f.err
}

func (f *fakeStore) FetchReservation(context.Context, string) (*models.RawReservation, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStore) FetchRestaurant(context.Context, string) (*models.RawRestaurant, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStore) FetchRestaurants(context.Context) ([]models.RawRestaurant, error) {
	return f.restaurants, f.err
}

func (f *fakeStore) CountReservations(context.Context, storage.ConflictFilter) (int, error) {
	return 0, f.err
}

func (f *fakeStore) UpdateReservation(context.Context, string, map[string]interface{}) error {
	return f.err
}

func testRecommendConfig() config.RecommendConfig {
	return config.RecommendConfig{TopN: 3, MaxClusters: 3, Seed: 42, Restarts: 10}
}

func reservation(id, restaurantID, status string, hour int) models.RawReservation {
	return models.NewRawReservation(map[string]interface{}{
		"id":               id,
		"restaurant_id":    restaurantID,
		"reservation_date": "2026-08-10",
		"reservation_time": fmt.Sprintf("%02d:00:00", hour),
		"status":           status,
		"guests_count":     float64(2),
	})
}

// clusteredHistory puts heavy confirmed traffic on rest-1 at 20:00 and
// light traffic elsewhere.
func clusteredHistory() []models.RawReservation {
	var rows []models.RawReservation
	id := 0
	add := func(restaurantID, status string, hour, n int) {
		for i := 0; i < n; i++ {
			rows = append(rows, reservation(fmt.Sprintf("r%d", id), restaurantID, status, hour))
			id++
		}
	}
	add("rest-1", "confirmed", 20, 12)
	add("rest-1", "completed", 21, 8)
	add("rest-2", "confirmed", 13, 2)
	add("rest-3", "cancelled", 20, 9) // ignored: not successful
	return rows
}

func TestRecommendNoSuccessfulHistory(t *testing.T) {
	store := &fakeStore{
		reservations: []models.RawReservation{
			reservation("r1", "rest-1", "cancelled", 20),
			reservation("r2", "rest-1", "pending", 19),
		},
	}
	engine := NewEngine(store, testRecommendConfig())

	result, err := engine.Recommend(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Message != insufficientDataMessage {
		t.Errorf("Message = %q, want insufficient-data message", result.Message)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("Suggestions = %v, want none", result.Suggestions)
	}
}

func TestRecommendSuggestions(t *testing.T) {
	store := &fakeStore{
		reservations: clusteredHistory(),
		restaurants: []models.RawRestaurant{
			models.NewRawRestaurant(map[string]interface{}{"id": "rest-1", "name": "La Terraza"}),
			models.NewRawRestaurant(map[string]interface{}{"id": "rest-2", "name": "El Patio"}),
		},
	}
	engine := NewEngine(store, testRecommendConfig())

	result, err := engine.Recommend(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Message != "Recomendaciones generadas correctamente" {
		t.Errorf("Message = %q", result.Message)
	}
	if len(result.Suggestions) == 0 {
		t.Fatalf("expected suggestions")
	}

	top := result.Suggestions[0]
	if top.Restaurant != "La Terraza" {
		t.Errorf("top restaurant = %q, want La Terraza", top.Restaurant)
	}
	if top.RecommendedHour != 20 || top.SuccessfulReservations != 12 {
		t.Errorf("top slot = %d/%d, want 20/12", top.RecommendedHour, top.SuccessfulReservations)
	}
	if result.BestHour < 13 || result.BestHour > 21 {
		t.Errorf("BestHour = %d, want within observed hours", result.BestHour)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	store := &fakeStore{reservations: clusteredHistory()}
	engine := NewEngine(store, testRecommendConfig())

	first, err := engine.Recommend(context.Background(), 3)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.Recommend(context.Background(), 3)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recommendations over unchanged data should be identical")
	}
}

func TestRecommendTopNDefault(t *testing.T) {
	store := &fakeStore{reservations: clusteredHistory()}
	engine := NewEngine(store, testRecommendConfig())

	// topN below one falls back to the configured default.
	result, err := engine.Recommend(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Suggestions) > 3 {
		t.Errorf("suggestions = %d, want at most configured TopN", len(result.Suggestions))
	}
}

func TestRecommendStorageFailure(t *testing.T) {
	store := &fakeStore{err: &storage.UpstreamError{Op: "fetch", Err: errors.New("down")}}
	engine := NewEngine(store, testRecommendConfig())

	_, err := engine.Recommend(context.Background(), 3)
	var upstream *storage.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want wrapped UpstreamError", err)
	}
}

func TestSuccessfulSlotGroupsOrdering(t *testing.T) {
	groups := successfulSlotGroups(clusteredHistory())

	want := []slotGroup{
		{"rest-1", 20, 12},
		{"rest-1", 21, 8},
		{"rest-2", 13, 2},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %v, want %v", groups, want)
	}
}

func TestKmeansDeterministicLabels(t *testing.T) {
	points := [][2]float64{{13, 2}, {20, 12}, {21, 8}}

	a := kmeans(points, 2, 10, 42)
	b := kmeans(points, 2, 10, 42)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed should yield identical labels")
	}
	if len(a) != len(points) {
		t.Fatalf("labels = %d, want %d", len(a), len(points))
	}
	// The two evening slots should land together, apart from 13:00.
	if a[1] != a[2] || a[0] == a[1] {
		t.Errorf("labels = %v, want evening slots clustered apart from 13:00", a)
	}
}

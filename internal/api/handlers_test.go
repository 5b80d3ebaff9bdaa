// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/insights"
	"github.com/tomtom215/foodai/internal/mailer"
	"github.com/tomtom215/foodai/internal/ml"
	"github.com/tomtom215/foodai/internal/models"
	"github.com/tomtom215/foodai/internal/recommend"
	"github.com/tomtom215/foodai/internal/storage"
)

// fakeStore is a configurable storage.Store for handler tests. Function
// fields override individual operations; unset operations return empty
// results.
type fakeStore struct {
	fetchReservations    func(ctx context.Context, restaurantID string) ([]models.RawReservation, error)
	fetchAllReservations func(ctx context.Context) ([]models.RawReservation, error)
	fetchReservation     func(ctx context.Context, id string) (*models.RawReservation, error)
	fetchRestaurant      func(ctx context.Context, id string) (*models.RawRestaurant, error)
	fetchRestaurants     func(ctx context.Context) ([]models.RawRestaurant, error)
	countReservations    func(ctx context.Context, filter storage.ConflictFilter) (int, error)
	updateReservation    func(ctx context.Context, id string, fields map[string]interface{}) error
	ping                 func(ctx context.Context) error
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.ping != nil {
		return f.ping(ctx)
	}
	return nil
}

func (f *fakeStore) FetchReservations(ctx context.Context, restaurantID string) ([]models.RawReservation, error) {
	if f.fetchReservations != nil {
		return f.fetchReservations(ctx, restaurantID)
	}
	return nil, nil
}

func (f *fakeStore) FetchAllReservations(ctx context.Context) ([]models.RawReservation, error) {
	if f.fetchAllReservations != nil {
		return f.fetchAllReservations(ctx)
	}
	return nil, nil
}

func (f *fakeStore) FetchReservation(ctx context.Context, id string) (*models.RawReservation, error) {
	if f.fetchReservation != nil {
		return f.fetchReservation(ctx, id)
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) FetchRestaurant(ctx context.Context, id string) (*models.RawRestaurant, error) {
	if f.fetchRestaurant != nil {
		return f.fetchRestaurant(ctx, id)
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) FetchRestaurants(ctx context.Context) ([]models.RawRestaurant, error) {
	if f.fetchRestaurants != nil {
		return f.fetchRestaurants(ctx)
	}
	return nil, nil
}

func (f *fakeStore) CountReservations(ctx context.Context, filter storage.ConflictFilter) (int, error) {
	if f.countReservations != nil {
		return f.countReservations(ctx, filter)
	}
	return 0, nil
}

func (f *fakeStore) UpdateReservation(ctx context.Context, id string, fields map[string]interface{}) error {
	if f.updateReservation != nil {
		return f.updateReservation(ctx, id, fields)
	}
	return nil
}

// fakeSender records sent emails.
type fakeSender struct {
	sent []models.EmailRequest
	err  error
}

func (f *fakeSender) Send(_ context.Context, req models.EmailRequest) (map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return map[string]interface{}{"message": "sent"}, nil
}

// memoryArtifacts keeps model artifacts in memory.
type memoryArtifacts struct {
	saved *ml.Artifacts
}

func (m *memoryArtifacts) Save(a *ml.Artifacts) error { m.saved = a; return nil }

func (m *memoryArtifacts) Load() (*ml.Artifacts, error) {
	if m.saved == nil {
		return nil, ml.ErrNotTrained
	}
	return m.saved, nil
}

func (m *memoryArtifacts) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8000, Timeout: 30 * time.Second},
		Model:  config.ModelConfig{Path: "unused", Estimators: 10, Seed: 42, TestFraction: 0.2},
		Recommend: config.RecommendConfig{
			TopN: 3, MaxClusters: 3, Seed: 42, Restarts: 10,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
}

func testClock() time.Time {
	return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
}

func newTestHandler(store *fakeStore, sender *fakeSender) *Handler {
	cfg := testConfig()
	clock := func() time.Time { return testClock() }
	h := New(
		cfg,
		store,
		insights.NewService(store).WithClock(clock),
		ml.NewService(store, &memoryArtifacts{}, cfg.Model),
		recommend.NewEngine(store, cfg.Recommend),
		sender,
	)
	return h.WithClock(clock)
}

func doRequest(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return &resp
}

func confirmedReservation(id string, date, clock string, guests float64) models.RawReservation {
	return models.NewRawReservation(map[string]interface{}{
		"id":               id,
		"restaurant_id":    "rest-1",
		"reservation_date": date,
		"reservation_time": clock,
		"status":           "confirmed",
		"guests_count":     guests,
	})
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	for _, path := range []string{"/health", "/health/live"} {
		rec := doRequest(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}

	rec := doRequest(t, h, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Errorf("ready with reachable storage = %d, want 200", rec.Code)
	}
}

func TestReadinessStorageDown(t *testing.T) {
	store := &fakeStore{ping: func(context.Context) error {
		return &storage.UpstreamError{Op: "ping", Err: context.DeadlineExceeded}
	}}
	h := newTestHandler(store, &fakeSender{})

	rec := doRequest(t, h, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready with storage down = %d, want 503", rec.Code)
	}
}

func TestGetRestaurantInsightsNotFound(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/restaurants/rest-1/insights", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", resp.Error)
	}
}

func TestGetRestaurantInsightsSuccess(t *testing.T) {
	store := &fakeStore{
		fetchReservations: func(context.Context, string) ([]models.RawReservation, error) {
			return []models.RawReservation{
				confirmedReservation("r1", "2026-08-10", "19:30:00", 4),
				confirmedReservation("r2", "2026-08-11", "13:00:00", 2),
			}, nil
		},
	}
	h := newTestHandler(store, &fakeSender{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/restaurants/rest-1/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" || resp.Data == nil {
		t.Errorf("envelope = %+v, want success with data", resp)
	}
}

func TestGetRestaurantInsightsUpstreamFailure(t *testing.T) {
	store := &fakeStore{
		fetchReservations: func(context.Context, string) ([]models.RawReservation, error) {
			return nil, &storage.UpstreamError{Op: "fetch reservations", Err: context.DeadlineExceeded}
		},
	}
	h := newTestHandler(store, &fakeSender{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/restaurants/rest-1/insights", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestTrainModelNoData(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/ai/train", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "DATA_VALIDATION_ERROR" {
		t.Errorf("error = %+v, want DATA_VALIDATION_ERROR", resp.Error)
	}
}

func TestTrainThenPredict(t *testing.T) {
	store := &fakeStore{
		fetchAllReservations: func(context.Context) ([]models.RawReservation, error) {
			rows := make([]models.RawReservation, 0, 40)
			for i := 0; i < 40; i++ {
				status := "confirmed"
				if i%2 == 1 {
					status = "cancelled"
				}
				rows = append(rows, models.NewRawReservation(map[string]interface{}{
					"id":               string(rune('a' + i%26)),
					"restaurant_id":    "rest-1",
					"reservation_date": "2026-08-10",
					"reservation_time": "19:00:00",
					"status":           status,
					"guests_count":     float64(2 + i%4),
				}))
			}
			return rows, nil
		},
	}
	h := newTestHandler(store, &fakeSender{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/ai/train", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("train status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/ai/predict?restaurant_id=rest-1&guests=4&hour=19&weekday=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("predict status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestPredictRequiresTraining(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/ai/predict?restaurant_id=rest-1", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "MODEL_NOT_TRAINED" {
		t.Errorf("error = %+v, want MODEL_NOT_TRAINED", resp.Error)
	}
}

func TestPredictValidation(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	// Missing restaurant_id fails validation before touching the model.
	rec := doRequest(t, h, http.MethodGet, "/api/v1/ai/predict", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendInsufficientData(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/ai/recommend", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
}

func TestGetSummary(t *testing.T) {
	store := &fakeStore{
		fetchAllReservations: func(context.Context) ([]models.RawReservation, error) {
			return []models.RawReservation{
				confirmedReservation("r1", "2026-08-10", "19:00:00", 4),
				confirmedReservation("r2", "2026-08-11", "20:00:00", 2),
				models.NewRawReservation(map[string]interface{}{
					"id": "r3", "restaurant_id": "rest-1",
					"reservation_date": "2026-08-12", "reservation_time": "13:00:00",
					"status": "cancelled", "guests_count": float64(3),
				}),
			}, nil
		},
	}
	h := newTestHandler(store, &fakeSender{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/analytics/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	payload, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var summary models.ReservationSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalReservations != 3 || summary.Confirmed != 2 || summary.Cancelled != 1 {
		t.Errorf("summary = %+v, want 3 total / 2 confirmed / 1 cancelled", summary)
	}
	if summary.AverageGuests != 3.0 {
		t.Errorf("AverageGuests = %g, want 3.0", summary.AverageGuests)
	}
}

func TestGetSummaryEmpty(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/analytics/summary", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPredictDemand(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	// base 100 - 5*2 = 90, holiday *1.2 = 108, + (30-25)*1.5 = 115.5
	body := `{"day_of_week":2,"is_holiday":true,"temperature_c":30}`
	rec := doRequest(t, h, http.MethodPost, "/api/v1/predict/demand", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	payload, _ := json.Marshal(resp.Data)
	var demand models.DemandResponse
	if err := json.Unmarshal(payload, &demand); err != nil {
		t.Fatalf("decode demand: %v", err)
	}
	if demand.Demand != 115.5 {
		t.Errorf("Demand = %g, want 115.5", demand.Demand)
	}
}

func TestPredictDemandValidation(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/predict/demand", `{"day_of_week":9}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSendEmail(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(&fakeStore{}, sender)

	body := `{"to":"ana@example.com","subject":"Hola","html":"<p>Hola</p>"}`
	rec := doRequest(t, h, http.MethodPost, "/api/v1/email/send", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "ana@example.com" {
		t.Errorf("sent = %+v, want one email to ana@example.com", sender.sent)
	}
}

func TestSendEmailInvalidAddress(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSender{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/email/send", `{"to":"nope","subject":"s","html":"h"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSendEmailProviderRejection(t *testing.T) {
	sender := &fakeSender{err: &mailer.ProviderError{StatusCode: http.StatusTooManyRequests, Err: context.DeadlineExceeded}}
	h := newTestHandler(&fakeStore{}, sender)

	body := `{"to":"ana@example.com","subject":"Hola","html":"<p>Hola</p>"}`
	rec := doRequest(t, h, http.MethodPost, "/api/v1/email/send", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want provider status passthrough", rec.Code)
	}
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package mailer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.EmailConfig{
		ProviderURL:    server.URL,
		Timeout:        5 * time.Second,
		ConnectTimeout: 2 * time.Second,
	})
}

func TestSendForwardsPayload(t *testing.T) {
	var received models.EmailRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg-1","status":"queued"}`))
	})

	result, err := client.Send(context.Background(), models.EmailRequest{
		To:      "ana@example.com",
		Subject: "Hola",
		HTML:    "<p>Hola</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if received.To != "ana@example.com" || received.Subject != "Hola" {
		t.Errorf("provider received %+v", received)
	}
	if result["id"] != "msg-1" {
		t.Errorf("result = %v, want provider response decoded", result)
	}
}

func TestSendWrapsTextResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("accepted"))
	})

	result, err := client.Send(context.Background(), models.EmailRequest{
		To: "ana@example.com", Subject: "s", HTML: "h",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result["message"] != "accepted" {
		t.Errorf("result = %v, want text wrapped under message", result)
	}
}

func TestSendProviderRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.Send(context.Background(), models.EmailRequest{
		To: "ana@example.com", Subject: "s", HTML: "h",
	})
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if provErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", provErr.StatusCode)
	}
}

func TestSendTransportFailure(t *testing.T) {
	client := NewClient(&config.EmailConfig{
		ProviderURL: "http://127.0.0.1:1", // nothing listens here
		Timeout:     time.Second,
	})

	_, err := client.Send(context.Background(), models.EmailRequest{
		To: "ana@example.com", Subject: "s", HTML: "h",
	})
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if provErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", provErr.StatusCode)
	}
}

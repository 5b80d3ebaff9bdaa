// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package mailer forwards notification emails to the external email
// provider over HTTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/logging"
	"github.com/tomtom215/foodai/internal/metrics"
	"github.com/tomtom215/foodai/internal/models"
)

// ProviderError is returned when the email provider rejects or fails a
// forward. StatusCode is zero for transport-level failures.
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("email provider responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("email provider call failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Sender forwards emails to the provider endpoint.
type Sender interface {
	Send(ctx context.Context, req models.EmailRequest) (map[string]interface{}, error)
}

// Client is the HTTP implementation of Sender, with a request timeout and
// a circuit breaker so a degraded provider cannot pile up handlers.
type Client struct {
	providerURL string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[map[string]interface{}]
}

// NewClient creates an email forwarding client from config.
func NewClient(cfg *config.EmailConfig) *Client {
	breaker := gobreaker.NewCircuitBreaker[map[string]interface{}](gobreaker.Settings{
		Name:    "email-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Email circuit breaker state transition")
		},
	})

	transport := http.DefaultTransport
	if cfg.ConnectTimeout > 0 {
		transport = &http.Transport{
			DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
		}
	}

	return &Client{
		providerURL: cfg.ProviderURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		breaker: breaker,
	}
}

// Send forwards one email payload and returns the provider's JSON
// response, or its raw text wrapped as {"message": ...}.
func (c *Client) Send(ctx context.Context, req models.EmailRequest) (map[string]interface{}, error) {
	result, err := c.breaker.Execute(func() (map[string]interface{}, error) {
		return c.post(ctx, req)
	})
	if err != nil {
		metrics.EmailForwardsTotal.WithLabelValues("error").Inc()
		if providerErr, ok := err.(*ProviderError); ok {
			return nil, providerErr
		}
		return nil, &ProviderError{Err: err}
	}
	metrics.EmailForwardsTotal.WithLabelValues("success").Inc()
	return result, nil
}

func (c *Client) post(ctx context.Context, req models.EmailRequest) (map[string]interface{}, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.providerURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &ProviderError{StatusCode: resp.StatusCode}
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var decoded map[string]interface{}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	}
	return map[string]interface{}{"message": string(body)}, nil
}

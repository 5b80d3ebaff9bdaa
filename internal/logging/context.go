// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ctxKey is the context key for the request-scoped logger.
type ctxKey struct{}

// WithRequestID attaches a child logger carrying the request ID to ctx.
// Handlers retrieve it with Ctx(ctx) so every log line within a request
// carries the same correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := Logger().With().Str("request_id", requestID).Logger()
	return context.WithValue(ctx, ctxKey{}, l)
}

// Ctx returns the request-scoped logger stored in ctx, or the global
// logger when none is attached. The pointer return keeps level
// constructors like Ctx(ctx).Warn() chainable.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return &l
	}
	l := Logger()
	return &l
}

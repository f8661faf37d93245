// Package service holds the business logic sitting between handlers and repositories.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"circles/internal/middleware"
	"circles/internal/models"
	"circles/internal/observability"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
)

// Clock returns the current time. Services take one so expiry can be tested.
type Clock func() time.Time

// UTCNow is the production clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// CascadeRunner retries the second step of a two-step write. A cascade that
// still fails after the last attempt does not fail the caller; it is reported
// as an INCONSISTENT_CASCADE warning.
type CascadeRunner struct {
	maxTries uint
	interval time.Duration
}

// NewCascadeRunner returns a runner making at most maxTries attempts, starting
// with the given backoff interval.
func NewCascadeRunner(maxTries int, interval time.Duration) *CascadeRunner {
	if maxTries < 1 {
		maxTries = 1
	}
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &CascadeRunner{maxTries: uint(maxTries), interval: interval}
}

// Run executes step until it succeeds, returns a non-internal error, or the
// attempts are used up. Only store failures are retried.
func (r *CascadeRunner) Run(ctx context.Context, operation string, step func(context.Context) error) *models.AppError {
	span, ctx := observability.NewSpan(ctx, "cascade."+operation, attribute.String("cascade.operation", operation))
	defer span.End()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.interval

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := step(ctx)
		if err == nil {
			return struct{}{}, nil
		}
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Kind != models.KindInternal {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(r.maxTries))

	span.AddAttributes(attribute.Int("cascade.attempts", attempts))
	if err == nil {
		return nil
	}

	span.SetError(err)
	observability.CascadeFailures.WithLabelValues(operation).Inc()
	middleware.Logger.ErrorContext(ctx, "cascade left incomplete",
		slog.String("operation", operation),
		slog.Int("attempts", attempts),
		slog.String("error", err.Error()),
	)
	return models.NewInconsistentCascadeError(operation, err)
}

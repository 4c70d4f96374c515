package driving

import (
	"context"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

// Resolver turns a service name into a ready-to-use credential.
// It is the sole entry point for all report-generation and data-fetch
// code; nothing below it leaks raw transport errors to callers.
//
// Resolve has three outcomes:
//   - (auth, nil): a usable credential
//   - (nil, nil): the service is not configured (clean, recoverable)
//   - (nil, err): an *domain.ExpiredError when a previously-working
//     OAuth credential can no longer be refreshed, or a wrapped
//     infrastructure error
type Resolver interface {
	Resolve(ctx context.Context, service domain.Service) (*domain.ResolvedAuth, error)
}

// StatusReporter produces a read-only per-service auth summary.
// It never refreshes tokens or mutates stored state, so it is safe to
// call arbitrarily often.
type StatusReporter interface {
	Statuses(ctx context.Context) []domain.ServiceStatus
}

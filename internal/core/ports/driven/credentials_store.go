package driven

import (
	"context"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

// CredentialsStore persists per-service credential records.
// Implementations hold at most one record per service and must never
// let writing one service's record corrupt another's.
type CredentialsStore interface {
	// Get retrieves the record for a service.
	// Returns (nil, nil) when no record exists; read failures such as a
	// missing or malformed file are also reported as absent so callers
	// can fall through to other credential sources.
	Get(ctx context.Context, service domain.Service) (*domain.CredentialRecord, error)

	// Save upserts the record for a service, preserving other services.
	Save(ctx context.Context, service domain.Service, record domain.CredentialRecord) error

	// Delete removes the record for a service. Deleting a service that
	// has no record is not an error.
	Delete(ctx context.Context, service domain.Service) error
}

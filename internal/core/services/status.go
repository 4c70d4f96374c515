package services

import (
	"context"
	"time"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusReporter = (*StatusService)(nil)

// StatusService reports the current auth method, expiry and validity
// per service. It is strictly informational: it never refreshes tokens
// and never writes to the store.
type StatusService struct {
	store driven.CredentialsStore
	env   driven.Environment

	now func() time.Time
}

// NewStatusService creates a status reporter.
func NewStatusService(store driven.CredentialsStore, env driven.Environment) *StatusService {
	return &StatusService{
		store: store,
		env:   env,
		now:   time.Now,
	}
}

// Statuses returns one entry per known service, in display order.
func (s *StatusService) Statuses(ctx context.Context) []domain.ServiceStatus {
	statuses := make([]domain.ServiceStatus, 0, len(domain.Services()))
	for _, service := range domain.Services() {
		statuses = append(statuses, s.status(ctx, service))
	}
	return statuses
}

func (s *StatusService) status(ctx context.Context, service domain.Service) domain.ServiceStatus {
	status := domain.ServiceStatus{Service: service, Method: domain.AuthMethodNone}

	if s.envConfigured(service) {
		status.Method = domain.AuthMethodEnv
		status.Valid = true
		return status
	}

	record, err := s.store.Get(ctx, service)
	if err != nil || record == nil {
		return status
	}

	switch {
	case record.IsOAuth():
		status.Method = domain.AuthMethodOAuth
		status.AccessTokenExpiresAt = record.OAuth.AccessTokenExpiresAt
		status.RefreshTokenExpiresAt = record.OAuth.RefreshTokenExpiresAt
		status.Valid = record.OAuth.Refreshable(s.now()) || record.OAuth.AccessTokenFresh(s.now(), 0)
	case record.IsPAT():
		status.Method = domain.AuthMethodPAT
		status.Valid = true
	}
	return status
}

func (s *StatusService) envConfigured(service domain.Service) bool {
	switch service {
	case domain.ServiceGitHub:
		return s.env.Getenv(EnvGitHubToken) != ""
	case domain.ServiceJira:
		return s.env.Getenv(EnvJiraHost) != "" &&
			s.env.Getenv(EnvJiraEmail) != "" &&
			s.env.Getenv(EnvJiraAPIToken) != ""
	default:
		return false
	}
}

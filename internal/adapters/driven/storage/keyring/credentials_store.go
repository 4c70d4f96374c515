// Package keyring stores credential records in the operating system
// keychain. It is an opt-in alternative to the file store for users who
// prefer secrets outside the filesystem; the record layout per service
// is unchanged.
package keyring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
	"github.com/devpulse-labs/devpulse-cli/internal/logger"
)

const serviceName = "devpulse"

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore is a keychain-backed credentials store. Each service
// gets its own keychain entry, so writing one can never corrupt another.
type CredentialsStore struct{}

// NewCredentialsStore creates a keychain-backed store.
func NewCredentialsStore() *CredentialsStore {
	return &CredentialsStore{}
}

// Available probes whether a system keychain can be used.
func Available() bool {
	testKey := key("probe")
	if err := keyring.Set(serviceName, testKey, "probe"); err != nil {
		return false
	}
	_ = keyring.Delete(serviceName, testKey)
	return true
}

func key(service string) string {
	return fmt.Sprintf("devpulse::%s", service)
}

// Get retrieves the record for a service. A missing entry or an entry
// that no longer unmarshals is reported as absent.
func (s *CredentialsStore) Get(_ context.Context, service domain.Service) (*domain.CredentialRecord, error) {
	data, err := keyring.Get(serviceName, key(service.String()))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		logger.Warn("Keychain read for %s: %v", service, err)
		return nil, nil
	}

	var record domain.CredentialRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		logger.Warn("Malformed keychain entry for %s, treating as absent: %v", service, err)
		return nil, nil
	}
	return &record, nil
}

// Save upserts the record for a service.
func (s *CredentialsStore) Save(_ context.Context, service domain.Service, record domain.CredentialRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := keyring.Set(serviceName, key(service.String()), string(data)); err != nil {
		return fmt.Errorf("keychain write for %s: %w", service, err)
	}
	return nil
}

// Delete removes the record for a service.
func (s *CredentialsStore) Delete(_ context.Context, service domain.Service) error {
	err := keyring.Delete(serviceName, key(service.String()))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain delete for %s: %w", service, err)
	}
	return nil
}

package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
	"github.com/devpulse-labs/devpulse-cli/internal/core/services"
)

// memStore is an in-memory CredentialsStore for command tests.
type memStore struct {
	records map[domain.Service]*domain.CredentialRecord
}

func newMemStore() *memStore {
	return &memStore{records: make(map[domain.Service]*domain.CredentialRecord)}
}

func (s *memStore) Get(_ context.Context, service domain.Service) (*domain.CredentialRecord, error) {
	return s.records[service], nil
}

func (s *memStore) Save(_ context.Context, service domain.Service, record domain.CredentialRecord) error {
	s.records[service] = &record
	return nil
}

func (s *memStore) Delete(_ context.Context, service domain.Service) error {
	delete(s.records, service)
	return nil
}

// memConfig is an in-memory ConfigStore for command tests.
type memConfig struct {
	values map[string]any
}

func (c *memConfig) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *memConfig) GetString(key string) string {
	v, _ := c.values[key].(string)
	return v
}

func (c *memConfig) GetInt(key string) int {
	v, _ := c.values[key].(int)
	return v
}

func (c *memConfig) GetStringSlice(key string) []string {
	v, _ := c.values[key].([]string)
	return v
}

func (c *memConfig) Set(key string, value any) error {
	c.values[key] = value
	return nil
}

func (c *memConfig) Load() error { return nil }

func (c *memConfig) Path() string { return "/tmp/devpulse-test/config.toml" }

// installTestDeps wires in-memory dependencies so PersistentPreRunE
// skips real setup, and restores the previous wiring afterwards.
func installTestDeps(t *testing.T, env map[string]string) *memStore {
	t.Helper()

	prevConfig, prevCred := configStore, credStore
	prevResolver, prevReporter, prevVerifiers := resolver, reporter, verifiers
	t.Cleanup(func() {
		configStore, credStore = prevConfig, prevCred
		resolver, reporter, verifiers = prevResolver, prevReporter, prevVerifiers
	})

	store := newMemStore()
	getenv := driven.EnvironmentFunc(func(key string) string { return env[key] })

	configStore = &memConfig{values: make(map[string]any)}
	credStore = store
	resolver = services.NewResolverService(store, getenv, nil)
	reporter = services.NewStatusService(store, getenv)
	verifiers = map[domain.Service]driven.IdentityVerifier{}
	return store
}

// runCommand executes the root command with args and captures output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

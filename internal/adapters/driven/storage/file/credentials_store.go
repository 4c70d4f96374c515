package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
	"github.com/devpulse-labs/devpulse-cli/internal/core/ports/driven"
	"github.com/devpulse-labs/devpulse-cli/internal/logger"
)

// LockTimeout bounds how long a write waits for the file lock held by
// a concurrent process.
const LockTimeout = 5 * time.Second

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore persists credential records as a JSON map of
// service name to record at <configDir>/credentials.json.
//
// Secrets at rest must not be world-readable: the directory is created
// 0700 and the file is written 0600 via a temp file and atomic rename.
// A sibling lock file serialises read-merge-write cycles across
// processes so one service's write cannot truncate another's record.
type CredentialsStore struct {
	mu       sync.Mutex
	filePath string
	lockPath string
}

// NewCredentialsStore creates a file-backed credentials store.
// If configDir is empty, defaults to ~/.devpulse.
func NewCredentialsStore(configDir string) (*CredentialsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".devpulse")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &CredentialsStore{
		filePath: filepath.Join(configDir, "credentials.json"),
		lockPath: filepath.Join(configDir, "credentials.lock"),
	}, nil
}

// Get retrieves the record for a service. A missing or malformed file
// is reported as absent, never as an error, so the resolver can fall
// through to other credential sources.
func (s *CredentialsStore) Get(_ context.Context, service domain.Service) (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll()
	record, ok := all[service]
	if !ok {
		return nil, nil
	}
	return record, nil
}

// Save upserts the record for a service. The write is a full-file
// read-merge-write under the file lock, so sibling services survive.
func (s *CredentialsStore) Save(ctx context.Context, service domain.Service, record domain.CredentialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	all := s.loadAll()
	all[service] = &record
	return s.saveAll(all)
}

// Delete removes the record for a service. Deleting an absent service
// is a no-op.
func (s *CredentialsStore) Delete(ctx context.Context, service domain.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	all := s.loadAll()
	if _, ok := all[service]; !ok {
		return nil
	}
	delete(all, service)
	return s.saveAll(all)
}

// Path returns the credentials file path.
func (s *CredentialsStore) Path() string {
	return s.filePath
}

func (s *CredentialsStore) acquireLock(ctx context.Context) (func(), error) {
	fl := flock.New(s.lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()

	// TryLockContext retries every 10ms until the context expires.
	locked, err := fl.TryLockContext(lockCtx, 10*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("lock credentials file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock credentials file: held by another process")
	}
	return func() { _ = fl.Unlock() }, nil
}

// loadAll reads the full record map. Any failure degrades to an empty
// map: a corrupt credential file must never block the environment
// variable override tier or a fresh login.
func (s *CredentialsStore) loadAll() map[domain.Service]*domain.CredentialRecord {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Read credentials file: %v", err)
		}
		return make(map[domain.Service]*domain.CredentialRecord)
	}

	var all map[domain.Service]*domain.CredentialRecord
	if err := json.Unmarshal(data, &all); err != nil {
		logger.Warn("Malformed credentials file %s, treating as empty: %v", s.filePath, err)
		return make(map[domain.Service]*domain.CredentialRecord)
	}
	if all == nil {
		all = make(map[domain.Service]*domain.CredentialRecord)
	}
	return all
}

// saveAll rewrites the whole file via a temp file and rename, so a
// failed write never leaves one record valid and its sibling truncated.
func (s *CredentialsStore) saveAll(all map[domain.Service]*domain.CredentialRecord) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	tmpFile, err := os.CreateTemp(dir, "credentials-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// Unix: rename atomically replaces the destination.
	// Windows: rename fails when the destination exists, so remove and
	// retry there.
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		if runtime.GOOS == "windows" {
			_ = os.Remove(s.filePath)
			return os.Rename(tmpPath, s.filePath)
		}
		os.Remove(tmpPath)
		return err
	}
	return nil
}

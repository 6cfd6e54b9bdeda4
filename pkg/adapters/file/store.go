package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/easybake/pkg/domain"
)

// Document names for each resource class.
const (
	PantryFile   = "pantry.json"
	CabinetsFile = "cabinets.json"
)

// Store implements ports.LedgerStore using the local filesystem.
// Each ledger is a single JSON document in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".easybake".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = ".easybake"
	}
	return &Store{BasePath: basePath}
}

// Path returns the document path for the given class.
func (s *Store) Path(class domain.ResourceClass) (string, error) {
	switch class {
	case domain.Ingredients:
		return filepath.Join(s.BasePath, PantryFile), nil
	case domain.Cookware:
		return filepath.Join(s.BasePath, CabinetsFile), nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownResourceClass, class)
}

// Load reads the ledger document.
func (s *Store) Load(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	path, err := s.Path(class)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", domain.ErrStorageUnavailable, path)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrStorageUnavailable, path, err)
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("%w: malformed %s: %v", domain.ErrStorageUnavailable, path, err)
	}
	if ledger == nil {
		// A literal "null" document.
		return nil, fmt.Errorf("%w: malformed %s: not an object", domain.ErrStorageUnavailable, path)
	}
	if err := ledger.Validate(); err != nil {
		return nil, fmt.Errorf("%w: malformed %s: %v", domain.ErrStorageUnavailable, path, err)
	}

	return ledger, nil
}

// Save persists the ledger to its JSON document atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, class domain.ResourceClass, ledger domain.Ledger) error {
	destPath, err := s.Path(class)
	if err != nil {
		return err
	}
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("refusing to save %s ledger: %w", class, err)
	}
	if ledger == nil {
		ledger = domain.Ledger{}
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("%w: failed to ensure ledger directory: %v", domain.ErrStorageUnavailable, err)
	}

	data, err := json.MarshalIndent(ledger, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s ledger: %w", class, err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+string(class)+"-*.json")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", domain.ErrStorageUnavailable, err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // No-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("%w: failed to write temp file: %v", domain.ErrStorageUnavailable, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("%w: failed to fsync temp file: %v", domain.ErrStorageUnavailable, err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temp file: %v", domain.ErrStorageUnavailable, err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("%w: failed to remove existing ledger for overwrite: %v", domain.ErrStorageUnavailable, err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("%w: failed to rename temp file: %v", domain.ErrStorageUnavailable, err)
	}

	return nil
}

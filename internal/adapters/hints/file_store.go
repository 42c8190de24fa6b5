// Package hints persists session hints in a small JSON file on the user's
// machine. Hints are UX-only: they remember that a prior sign-in succeeded
// and when, and are never trusted as proof of a live session.
package hints

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skilldrones/regionview/internal/ports"
)

const (
	defaultDirName  = "regionview"
	defaultFileName = "hints.json"
	fileMode        = 0o600
	dirMode         = 0o700
)

// FileStore implements ports.HintStore on a single JSON file.
type FileStore struct {
	path string
}

var _ ports.HintStore = (*FileStore)(nil)

// NewFileStore creates a FileStore at the given path. An empty path places
// the file under the user config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user config dir: %w", err)
		}
		path = filepath.Join(configDir, defaultDirName, defaultFileName)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored hints, or zero hints when the file is absent.
// A corrupt file is treated as absent: hints are disposable.
func (s *FileStore) Load() (ports.Hints, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ports.Hints{}, nil
		}
		return ports.Hints{}, fmt.Errorf("read hints file: %w", err)
	}

	var h ports.Hints
	if err := json.Unmarshal(raw, &h); err != nil {
		return ports.Hints{}, nil
	}
	return h, nil
}

// MarkAuthSuccess records a successful authentication at the given time.
func (s *FileStore) MarkAuthSuccess(at time.Time) error {
	h := ports.Hints{HadSuccessfulAuth: true, LastAuthTime: at}
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode hints: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("create hints dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, fileMode); err != nil {
		return fmt.Errorf("write hints file: %w", err)
	}
	return nil
}

// Clear removes the hints file. Clearing an absent file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove hints file: %w", err)
	}
	return nil
}

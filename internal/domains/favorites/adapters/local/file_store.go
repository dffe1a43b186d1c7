// Package local persists device-scoped favorites on disk.
package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	"github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

// FileName is the name of the favorites file inside a device directory.
const FileName = "favorites.json"

var _ ports.LocalStore = (*FileStore)(nil)

// FileStore keeps the device favorites as a JSON array in dir/favorites.json.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on first write.
func NewFileStore(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("local favorites directory is required")
	}
	return &FileStore{dir: dir}, nil
}

// Read returns nil, nil when no favorites file exists yet.
func (s *FileStore) Read() ([]domain.ItemID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read local favorites: %w", err)
	}
	var ids []domain.ItemID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode local favorites: %w", err)
	}
	return ids, nil
}

// Write replaces the favorites file atomically (temp file, then rename).
func (s *FileStore) Write(ids []domain.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create local favorites dir: %w", err)
	}
	if ids == nil {
		ids = []domain.ItemID{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	path := s.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write local favorites: %w", err)
	}
	return os.Rename(tmp, path)
}

// Path returns the full path of the favorites file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, FileName)
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

// JSONStore provides thread-safe JSON file-based persistence. An RWMutex
// serializes access within the process; a sibling .lock file guards against
// other processes sharing the same data directory.
type JSONStore struct {
	mu       sync.RWMutex
	filePath string
	lockPath string
}

// NewJSONStore creates a new JSON store at the specified path
func NewJSONStore(dataDir, filename string) (*JSONStore, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	filePath := filepath.Join(dataDir, filename)

	return &JSONStore{
		filePath: filePath,
		// Separate lock file: the atomic rename in Save replaces the data
		// file's inode, so locking the data file itself would be unsound.
		lockPath: filePath + ".lock",
	}, nil
}

// Load reads data from the JSON file into the provided interface
func (s *JSONStore) Load(data interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fileLock, err := s.acquireFileLock(false)
	if err != nil {
		return err
	}
	defer func() { _ = fileLock.Unlock() }()

	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet, not an error
			return nil
		}
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(data)
}

// Save writes data to the JSON file
func (s *JSONStore) Save(data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fileLock, err := s.acquireFileLock(true)
	if err != nil {
		return err
	}
	defer func() { _ = fileLock.Unlock() }()

	// Write to temp file first, then rename (atomic operation)
	tempFile := s.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	// Atomic rename
	return os.Rename(tempFile, s.filePath)
}

// Exists checks if the storage file exists
func (s *JSONStore) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.filePath)
	return err == nil
}

// acquireFileLock takes the cross-process lock. Each call uses its own file
// handle so overlapping readers release independently.
func (s *JSONStore) acquireFileLock(exclusive bool) (*flock.Flock, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	fileLock := flock.New(s.lockPath)

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = fileLock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = fileLock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock on %s: %w", s.filePath, err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire lock on %s", s.filePath)
	}
	return fileLock, nil
}

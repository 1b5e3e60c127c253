package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

// Status reports what was found on disk for a key. Missing and empty files
// are degraded-but-valid states; malformed content is an error instead.
type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusEmpty   Status = "empty"
)

// ErrInvalidKey signals a key that would escape the data directory.
var ErrInvalidKey = errors.New("invalid file key")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store persists pretty-printed JSON documents, one file per key. A per-key
// mutex serializes read-modify-write cycles and writes go through a temp file
// plus rename so a crash mid-write never leaves a half-written document.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New opens (creating if needed) the data directory.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{
		dir:   dir,
		locks: map[string]*sync.Mutex{},
	}, nil
}

// Dir returns the root data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path resolves the on-disk path for a key, rejecting traversal attempts.
func (s *Store) Path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}

// WithLock runs fn while holding the key's mutex, so a load/mutate/save cycle
// cannot interleave with a concurrent writer for the same file.
func (s *Store) WithLock(key string, fn func() error) error {
	l := s.lockFor(key)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// LoadJSON decodes the document at key into dest. Missing or zero-length
// files leave dest untouched and report the corresponding status; malformed
// content is returned as an error carrying the JSON decode context.
func (s *Store) LoadJSON(key string, dest any) (Status, error) {
	path, err := s.Path(key)
	if err != nil {
		return StatusMissing, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StatusMissing, nil
		}
		return StatusMissing, fmt.Errorf("read %s: %w", key, err)
	}

	// Legacy exports carry a UTF-8 BOM.
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return StatusEmpty, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return StatusOK, fmt.Errorf("decode %s: %w", key, err)
	}
	return StatusOK, nil
}

// SaveJSON writes v as an indented JSON document, replacing any previous
// content atomically.
func (s *Store) SaveJSON(key string, v any) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", key, err)
	}

	if _, err := tmp.Write(data); err != nil {
		err = multierr.Append(fmt.Errorf("stage %s: %w", key, err), tmp.Close())
		return multierr.Append(err, os.Remove(tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return multierr.Append(fmt.Errorf("stage %s: %w", key, err), os.Remove(tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return multierr.Append(fmt.Errorf("replace %s: %w", key, err), os.Remove(tmp.Name()))
	}
	return nil
}

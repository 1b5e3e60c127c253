package orders

import (
	"fmt"
	"strings"

	"github.com/mkrishnan-dev/orderhub-backend/pkg/filestore"
)

// FileStore resolves and reads/writes the per-(store, supplier) order files.
type FileStore struct {
	files    *filestore.Store
	sentinel string
}

// NewFileStore wraps the flat-file layer with order-file key resolution.
// sentinel is the "all stores" store name (an empty store means the same).
func NewFileStore(files *filestore.Store, sentinel string) (*FileStore, error) {
	if files == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if strings.TrimSpace(sentinel) == "" {
		sentinel = "ALL"
	}
	return &FileStore{files: files, sentinel: sentinel}, nil
}

// Scoped reports whether the store name addresses a concrete store rather
// than the all-stores sentinel.
func (s *FileStore) Scoped(storeName string) bool {
	trimmed := strings.TrimSpace(storeName)
	return trimmed != "" && !strings.EqualFold(trimmed, s.sentinel)
}

// Key resolves the order file name: `{STORE}_{SUPPLIERCODE}.json` for a
// concrete store, `{SUPPLIERCODE}.json` otherwise.
func (s *FileStore) Key(storeName, supplierCode string) (string, error) {
	code := strings.TrimSpace(supplierCode)
	if code == "" {
		return "", fmt.Errorf("supplier code is required")
	}
	if s.Scoped(storeName) {
		return fmt.Sprintf("%s_%s.json", strings.ToUpper(strings.TrimSpace(storeName)), code), nil
	}
	return code + ".json", nil
}

// Load reads the order file, reporting missing/empty files as a status
// rather than an error. Malformed JSON is an error.
func (s *FileStore) Load(storeName, supplierCode string) ([]LineItem, filestore.Status, error) {
	key, err := s.Key(storeName, supplierCode)
	if err != nil {
		return nil, filestore.StatusMissing, err
	}
	var items []LineItem
	status, err := s.files.LoadJSON(key, &items)
	if err != nil {
		return nil, status, err
	}
	return items, status, nil
}

// Save rewrites the full order file.
func (s *FileStore) Save(storeName, supplierCode string, items []LineItem) error {
	key, err := s.Key(storeName, supplierCode)
	if err != nil {
		return err
	}
	return s.files.SaveJSON(key, items)
}

// WithLock serializes a read-modify-write cycle against the resolved file.
func (s *FileStore) WithLock(storeName, supplierCode string, fn func() error) error {
	key, err := s.Key(storeName, supplierCode)
	if err != nil {
		return err
	}
	return s.files.WithLock(key, fn)
}

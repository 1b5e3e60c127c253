package users

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/filestore"
)

const usersFile = "users.json"

// ErrNotFound signals an unknown username.
var ErrNotFound = errors.New("user not found")

// User is one credential row from users.json. Passwords may be plaintext
// (legacy rows) or argon2id hashes; verification lives in pkg/security.
type User struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	SupplierCode string `json:"suppliercode"`
	SupplierName string `json:"suppliername"`
	GSTNumber    string `json:"GSTNumber"`
}

// SupplierCodes splits the possibly comma-separated supplier code column.
func (u User) SupplierCodes() []string {
	codes := make([]string, 0, 1)
	for _, part := range strings.Split(u.SupplierCode, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// Repository loads credential rows fresh from disk on every access.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type repository struct {
	files *filestore.Store
}

// NewRepository builds a credential store over the shared data directory.
func NewRepository(files *filestore.Store) (Repository, error) {
	if files == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file store required")
	}
	return &repository{files: files}, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	target := strings.TrimSpace(username)
	if target == "" {
		return nil, ErrNotFound
	}

	var rows []User
	status, err := r.files.LoadJSON(usersFile, &rows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load users")
	}
	if status != filestore.StatusOK {
		return nil, ErrNotFound
	}

	for i := range rows {
		if rows[i].Username == target {
			user := rows[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

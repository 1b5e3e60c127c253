package suppliers

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/filestore"
)

const directoryFile = "OrderSuppliers.json"

// ErrNotFound signals an unknown supplier code.
var ErrNotFound = errors.New("supplier not found")

// Supplier is one row of per-supplier reference data.
type Supplier struct {
	SupplierCode   string `json:"suppliercode"`
	SupplierName   string `json:"suppliername"`
	GSTNumber      string `json:"GSTNumber,omitempty"`
	MobileNumber   string `json:"MobileNumber,omitempty"`
	WhatsAppNumber string `json:"WhatsappNumber,omitempty"`
	StoreName      string `json:"StoreName,omitempty"`
}

// WhatsAppDestination formats the on-record number for the messaging
// provider (`whatsapp:+<digits>`). Ten-digit numbers get the Indian country
// code the legacy data assumed. Empty when no number is on record.
func (s Supplier) WhatsAppDestination() string {
	number := s.WhatsAppNumber
	if strings.TrimSpace(number) == "" {
		number = s.MobileNumber
	}
	digits := digitsOnly(number)
	if digits == "" {
		return ""
	}
	if len(digits) == 10 {
		digits = "91" + digits
	}
	return "whatsapp:+" + digits
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Directory exposes the supplier reference data, reloaded per access.
type Directory interface {
	List(ctx context.Context) ([]Supplier, error)
	ListForCodes(ctx context.Context, codes []string) ([]Supplier, error)
	// FindForStore returns the supplier row for the code, preferring a row
	// scoped to the given store over an unscoped one. With no store requested
	// any row for the code serves, unscoped first.
	FindForStore(ctx context.Context, code, storeName string) (*Supplier, error)
}

type directory struct {
	files *filestore.Store
}

// NewDirectory builds a supplier directory over the shared data directory.
func NewDirectory(files *filestore.Store) (Directory, error) {
	if files == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file store required")
	}
	return &directory{files: files}, nil
}

func (d *directory) List(ctx context.Context) ([]Supplier, error) {
	var rows []Supplier
	status, err := d.files.LoadJSON(directoryFile, &rows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier directory")
	}
	if status != filestore.StatusOK {
		return []Supplier{}, nil
	}
	return rows, nil
}

func (d *directory) ListForCodes(ctx context.Context, codes []string) ([]Supplier, error) {
	rows, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[strings.TrimSpace(code)] = true
	}
	matched := make([]Supplier, 0, len(codes))
	for _, row := range rows {
		if wanted[strings.TrimSpace(row.SupplierCode)] {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

func (d *directory) FindForStore(ctx context.Context, code, storeName string) (*Supplier, error) {
	rows, err := d.List(ctx)
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(code)
	store := strings.TrimSpace(storeName)

	var unscoped, first *Supplier
	for i := range rows {
		if strings.TrimSpace(rows[i].SupplierCode) != target {
			continue
		}
		row := rows[i]
		if first == nil {
			first = &row
		}
		rowStore := strings.TrimSpace(row.StoreName)
		if store != "" && strings.EqualFold(rowStore, store) {
			return &row, nil
		}
		if rowStore == "" && unscoped == nil {
			unscoped = &row
		}
	}
	if unscoped != nil {
		return unscoped, nil
	}
	if store == "" && first != nil {
		return first, nil
	}
	return nil, ErrNotFound
}

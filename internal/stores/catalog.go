package stores

import (
	"context"
	"strings"

	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/filestore"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
)

const headerFile = "storeheader.json"

// Store is one row of the static store reference list.
type Store struct {
	StoreCode     string `json:"StoreCode"`
	StoreName     string `json:"StoreName"`
	StoreFullName string `json:"StoreFullName"`
	Address1      string `json:"Address1,omitempty"`
	Address2      string `json:"Address2,omitempty"`
}

// Catalog exposes the store reference data, reloaded from disk per access.
type Catalog interface {
	List(ctx context.Context) ([]Store, error)
	// ResolveName maps a short or full display name to the short store code
	// used in order file names. Unknown names resolve to the trimmed input so
	// legacy callers that already pass short codes keep working.
	ResolveName(ctx context.Context, name string) string
}

type catalog struct {
	files *filestore.Store
	logg  *logger.Logger
}

// NewCatalog builds a catalog over the shared data directory.
func NewCatalog(files *filestore.Store, logg *logger.Logger) (Catalog, error) {
	if files == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file store required")
	}
	return &catalog{files: files, logg: logg}, nil
}

func (c *catalog) List(ctx context.Context) ([]Store, error) {
	var headers []Store
	status, err := c.files.LoadJSON(headerFile, &headers)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store headers")
	}
	if status != filestore.StatusOK {
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "file_status", string(status)), "store header file unavailable")
		}
		return []Store{}, nil
	}
	return headers, nil
}

func (c *catalog) ResolveName(ctx context.Context, name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	headers, err := c.List(ctx)
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "resolve store name", err)
		}
		return trimmed
	}
	for _, header := range headers {
		if strings.EqualFold(header.StoreName, trimmed) || strings.EqualFold(header.StoreFullName, trimmed) {
			return header.StoreName
		}
	}
	return trimmed
}

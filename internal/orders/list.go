package orders

import (
	"context"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/filestore"
)

// List loads, filters, sorts, and slices one page of the order file.
// Filtering keeps items with a positive quantity (and, when a concrete store
// is requested, a matching StoreName). The sort is case-insensitive by
// product name; serial numbers are absolute across the filtered sequence.
func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	start := time.Now()

	items, status, err := s.store.Load(params.StoreName, params.SupplierCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order file is not valid JSON")
	}

	filtered := filterItems(items, params.StoreName, s.store)
	sortByProductName(filtered)

	total := len(filtered)
	first, last := params.Page.Bounds(total)

	rows := make([]ListItem, 0, last-first)
	for idx := first; idx < last; idx++ {
		item := filtered[idx]
		rows = append(rows, ListItem{
			SerialNo:    idx + 1,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			OrderQty:    int(item.OrderQty),
			SaleUnit:    item.SaleUnit,
			MRP:         item.MRP,
			Remarks:     item.Remarks,
			OrderID:     item.OrderID,
			StoreName:   item.StoreName,
		})
	}

	if status != filestore.StatusOK && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"supplier_code": params.SupplierCode,
			"store":         params.StoreName,
			"file_status":   string(status),
		})
		s.logg.Warn(logCtx, "order file unavailable, returning empty page")
	}
	s.metrics.ObserveListDuration(params.StoreName, time.Since(start))

	return &ListResult{
		Data:       rows,
		TotalCount: total,
		FileStatus: status,
	}, nil
}

func filterItems(items []LineItem, storeName string, store *FileStore) []LineItem {
	scoped := store.Scoped(storeName)
	filtered := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.OrderQty <= 0 {
			continue
		}
		if scoped && !strings.EqualFold(strings.TrimSpace(item.StoreName), strings.TrimSpace(storeName)) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func sortByProductName(items []LineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].ProductName) < strings.ToLower(items[j].ProductName)
	})
}

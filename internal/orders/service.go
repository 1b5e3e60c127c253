package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkrishnan-dev/orderhub-backend/internal/notify"
	"github.com/mkrishnan-dev/orderhub-backend/internal/stores"
	"github.com/mkrishnan-dev/orderhub-backend/internal/suppliers"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/filestore"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/metrics"
)

// Service is the order read/sync surface the controllers depend on.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ApplyUpdates(ctx context.Context, params UpdateParams) (*UpdateResult, error)
	SendSummary(ctx context.Context, storeName, supplierCode, message string) (bool, error)
	Summary(ctx context.Context, supplierCodes []string) ([]StoreSummary, error)
}

// Notifier is the outbound messaging capability injected into the service.
type Notifier interface {
	Notify(ctx context.Context, destination, body string) bool
}

type supplierContacts interface {
	FindForStore(ctx context.Context, code, storeName string) (*suppliers.Supplier, error)
}

type storeCatalog interface {
	List(ctx context.Context) ([]stores.Store, error)
}

type service struct {
	store    *FileStore
	contacts supplierContacts
	catalog  storeCatalog
	notifier Notifier
	metrics  *metrics.OrderMetrics
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build the order service.
type ServiceParams struct {
	Store    *FileStore
	Contacts supplierContacts
	Catalog  storeCatalog
	Notifier Notifier
	Metrics  *metrics.OrderMetrics
	Logger   *logger.Logger
}

// NewService constructs the order service. Notifier may be nil; updates then
// persist without messaging.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("order file store is required")
	}
	if params.Contacts == nil {
		return nil, fmt.Errorf("supplier directory is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("store catalog is required")
	}
	return &service{
		store:    params.Store,
		contacts: params.Contacts,
		catalog:  params.Catalog,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// ApplyUpdates matches each edit against the order file by the (product,
// order, store) triple, first match wins, and rewrites the file only when a
// quantity or remark actually changed. Unmatched edits are skipped, never
// fatal. The whole read-modify-write cycle holds the per-file lock.
func (s *service) ApplyUpdates(ctx context.Context, params UpdateParams) (*UpdateResult, error) {
	if strings.TrimSpace(params.SupplierCode) == "" || len(params.Edits) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid update data")
	}

	result := &UpdateResult{}
	err := s.store.WithLock(params.StoreName, params.SupplierCode, func() error {
		items, status, err := s.store.Load(params.StoreName, params.SupplierCode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order file is not valid JSON")
		}
		if status == filestore.StatusMissing {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier data file not found")
		}

		for _, edit := range params.Edits {
			idx := findItem(items, edit)
			if idx < 0 {
				result.Skipped++
				if s.logg != nil {
					logCtx := s.logg.WithFields(ctx, map[string]any{
						"product_code": edit.ProductCode,
						"order_id":     edit.OrderID,
						"store":        edit.StoreName,
					})
					s.logg.Warn(logCtx, "no matching line item for edit")
				}
				continue
			}

			result.Matched++
			if line := applyEdit(&items[idx], edit); line != "" {
				result.Applied++
				result.Summary = append(result.Summary, line)
			}
		}

		result.Changed = result.Applied > 0
		if result.Changed {
			if err := s.store.Save(params.StoreName, params.SupplierCode, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order file")
			}
			s.metrics.IncFileWritten()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncUpdates("applied", result.Applied)
	s.metrics.IncUpdates("skipped", result.Skipped)
	s.metrics.IncUpdates("unchanged", result.Matched-result.Applied)

	if result.Changed {
		result.Notified = s.notifyUpdate(ctx, params, result.Summary)
	}
	return result, nil
}

// findItem returns the index of the first item matching the edit's identity
// triple. Duplicate triples exist in legacy files; later duplicates are
// intentionally left alone so writes stay where the read path showed them.
func findItem(items []LineItem, edit Edit) int {
	for i := range items {
		if items[i].Matches(edit.ProductCode, edit.OrderID, edit.StoreName) {
			return i
		}
	}
	return -1
}

// applyEdit mutates the item when the edit changes anything, returning a
// human-readable summary line keyed by order id, or "" when nothing changed.
func applyEdit(item *LineItem, edit Edit) string {
	changes := make([]string, 0, 2)
	if item.OrderQty != edit.OrderQty {
		changes = append(changes, fmt.Sprintf("qty %d -> %d", int(item.OrderQty), int(edit.OrderQty)))
		item.OrderQty = edit.OrderQty
	}
	if item.Remarks != edit.Remarks {
		changes = append(changes, fmt.Sprintf("remarks %q", edit.Remarks))
		item.Remarks = edit.Remarks
	}
	if len(changes) == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %s %s", item.OrderID, item.ProductCode, strings.Join(changes, ", "))
}

// contactStore maps the all-stores sentinel (and blank) to an unscoped
// directory lookup so unscoped batches still resolve a contact.
func (s *service) contactStore(storeName string) string {
	if !s.store.Scoped(storeName) {
		return ""
	}
	return strings.TrimSpace(storeName)
}

func (s *service) notifyUpdate(ctx context.Context, params UpdateParams, summary []string) bool {
	if s.notifier == nil {
		return false
	}
	contact, err := s.contacts.FindForStore(ctx, params.SupplierCode, s.contactStore(params.StoreName))
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSupplierCode(ctx, params.SupplierCode), "no supplier contact for update notification")
		}
		return false
	}
	dest := contact.WhatsAppDestination()
	if dest == "" {
		return false
	}
	body := notify.FormatUpdateMessage(contact.SupplierName, params.StoreName, summary)
	return s.notifier.Notify(ctx, dest, body)
}

// SendSummary pushes a snapshot of the open order lines (or a caller-supplied
// message) to the supplier's WhatsApp number.
func (s *service) SendSummary(ctx context.Context, storeName, supplierCode, message string) (bool, error) {
	if s.notifier == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "notification gateway not configured")
	}
	contact, err := s.contacts.FindForStore(ctx, supplierCode, s.contactStore(storeName))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "supplier not found")
	}
	dest := contact.WhatsAppDestination()
	if dest == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "no whatsapp number on record")
	}

	body := strings.TrimSpace(message)
	if body == "" {
		items, _, err := s.store.Load(storeName, supplierCode)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order file is not valid JSON")
		}
		count := 0
		value := decimal.Zero
		for _, item := range items {
			if item.OrderQty <= 0 {
				continue
			}
			count++
			value = value.Add(item.Value())
		}
		body = notify.FormatSnapshotMessage(contact.SupplierName, storeName, count, value.StringFixed(2))
	}

	return s.notifier.Notify(ctx, dest, body), nil
}

// Summary aggregates open line counts and values per store for the dashboard.
// Store-qualified files are grouped under their catalog store; supplier-only
// files contribute under each item's own StoreName column.
func (s *service) Summary(ctx context.Context, supplierCodes []string) ([]StoreSummary, error) {
	type bucket struct {
		count int
		value decimal.Decimal
	}
	buckets := map[string]*bucket{}

	add := func(store string, item LineItem) {
		if item.OrderQty <= 0 {
			return
		}
		if store == "" {
			store = "UNASSIGNED"
		}
		b, ok := buckets[store]
		if !ok {
			b = &bucket{value: decimal.Zero}
			buckets[store] = b
		}
		b.count++
		b.value = b.value.Add(item.Value())
	}

	catalogStores, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, code := range supplierCodes {
		items, _, err := s.store.Load("", code)
		if err == nil {
			for _, item := range items {
				add(strings.TrimSpace(item.StoreName), item)
			}
		}
		for _, header := range catalogStores {
			items, _, err := s.store.Load(header.StoreName, code)
			if err != nil {
				continue
			}
			for _, item := range items {
				add(header.StoreName, item)
			}
		}
	}

	summaries := make([]StoreSummary, 0, len(buckets))
	for store, b := range buckets {
		summaries = append(summaries, StoreSummary{
			StoreName:  store,
			OrderCount: b.count,
			OrderValue: b.value.StringFixed(2),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].StoreName < summaries[j].StoreName })
	return summaries, nil
}

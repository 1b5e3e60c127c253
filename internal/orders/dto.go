package orders

import (
	"github.com/mkrishnan-dev/orderhub-backend/pkg/filestore"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/pagination"
)

// ListParams configures the paginated order read path.
type ListParams struct {
	StoreName    string
	SupplierCode string
	Page         pagination.Page
}

// ListItem is the row shape the frontend renders. Serial numbers are
// absolute positions in the filtered-and-sorted sequence, not page-relative,
// so they stay stable row identifiers across pages.
type ListItem struct {
	SerialNo    int    `json:"SerialNo"`
	ProductCode string `json:"ProductCode"`
	ProductName string `json:"ProductName"`
	OrderQty    int    `json:"OrderQty"`
	SaleUnit    string `json:"SaleUnit,omitempty"`
	MRP         string `json:"MRP,omitempty"`
	Remarks     string `json:"Remarks"`
	OrderID     string `json:"OrderId"`
	StoreName   string `json:"StoreName,omitempty"`
}

// ListResult carries one page plus the filtered total and the file state.
type ListResult struct {
	Data       []ListItem       `json:"data"`
	TotalCount int              `json:"total_count"`
	FileStatus filestore.Status `json:"file_status"`
}

// Edit is one caller-supplied line item change. The (ProductCode, OrderId,
// StoreName) triple selects the target row; an empty StoreName matches any.
type Edit struct {
	ProductCode string   `json:"ProductCode" validate:"required"`
	OrderID     string   `json:"OrderId" validate:"required"`
	StoreName   string   `json:"StoreName"`
	OrderQty    Quantity `json:"OrderQty"`
	Remarks     string   `json:"remarks"`
}

// UpdateParams is one batch of edits against a single order file.
type UpdateParams struct {
	StoreName    string
	SupplierCode string
	Edits        []Edit
}

// UpdateResult summarizes what a batch changed.
type UpdateResult struct {
	Changed  bool     `json:"changed"`
	Matched  int      `json:"matched"`
	Applied  int      `json:"applied"`
	Skipped  int      `json:"skipped"`
	Summary  []string `json:"summary,omitempty"`
	Notified bool     `json:"notified"`
}

// StoreSummary aggregates one store's open order lines for the dashboard.
type StoreSummary struct {
	StoreName  string `json:"store_name"`
	OrderCount int    `json:"order_count"`
	OrderValue string `json:"order_value"`
}

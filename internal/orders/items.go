package orders

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity tolerates both string and numeric JSON encodings of an order
// quantity. Legacy order files store it as text, some exports as a number;
// anything unparseable clamps to zero. It always marshals back as a string
// so rewritten files keep the legacy on-disk shape.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*q = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*q = 0
		return nil
	}
	*q = Quantity(n)
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.Itoa(int(q)))), nil
}

// LineItem is the canonical order-file record. Field tags preserve the
// legacy key names; json decoding matches the historical `Remarks` casing
// case-insensitively, while writes always use the lowercase key.
type LineItem struct {
	ProductCode string   `json:"ProductCode"`
	ProductName string   `json:"ProductName"`
	OrderQty    Quantity `json:"OrderQty"`
	SaleUnit    string   `json:"SaleUnit,omitempty"`
	MRP         string   `json:"MRP,omitempty"`
	Remarks     string   `json:"remarks"`
	ORSupplier  string   `json:"ORSUPPLIER,omitempty"`
	OrderID     string   `json:"OrderId"`
	StoreName   string   `json:"StoreName,omitempty"`
}

// Price parses the MRP column, zero when absent or unparseable.
func (i LineItem) Price() decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(i.MRP))
	if err != nil {
		return decimal.Zero
	}
	return price
}

// Value is the line value (price times ordered quantity).
func (i LineItem) Value() decimal.Decimal {
	return i.Price().Mul(decimal.NewFromInt(int64(i.OrderQty)))
}

// Matches reports whether the item carries the (product, order, store)
// identity triple. An empty store argument matches any store, for edits sent
// by clients that predate store-scoped rows. The triple is assumed unique per
// file; callers resolve duplicates by taking the first match.
func (i LineItem) Matches(productCode, orderID, storeName string) bool {
	if !strings.EqualFold(strings.TrimSpace(i.ProductCode), strings.TrimSpace(productCode)) {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(i.OrderID), strings.TrimSpace(orderID)) {
		return false
	}
	if strings.TrimSpace(storeName) == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(i.StoreName), strings.TrimSpace(storeName))
}

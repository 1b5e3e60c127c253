package notify

import (
	"fmt"
	"strings"
)

// FormatUpdateMessage renders the batch-edit notification body: a header
// naming the supplier and store followed by one line per applied change.
func FormatUpdateMessage(supplierName, storeName string, lines []string) string {
	var b strings.Builder
	b.WriteString("Order update")
	if supplierName != "" {
		b.WriteString(" for ")
		b.WriteString(supplierName)
	}
	if storeName != "" {
		fmt.Fprintf(&b, " (%s)", storeName)
	}
	b.WriteString(":")
	for _, line := range lines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

// FormatSnapshotMessage renders the open-order snapshot body sent on demand.
func FormatSnapshotMessage(supplierName, storeName string, count int, value string) string {
	var b strings.Builder
	b.WriteString("Open orders")
	if supplierName != "" {
		b.WriteString(" for ")
		b.WriteString(supplierName)
	}
	if storeName != "" {
		fmt.Fprintf(&b, " (%s)", storeName)
	}
	fmt.Fprintf(&b, ": %d items, value %s", count, value)
	return b.String()
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MergeStrategy controls how repeated adds of the same product behave.
type MergeStrategy string

const (
	// MergeByProductID keeps one line per distinct product and bumps its
	// quantity on repeated adds.
	MergeByProductID MergeStrategy = "by-product-id"
	// MergeByInstance appends a new line per add, each with its own
	// generated line id and an optional gift note.
	MergeByInstance MergeStrategy = "by-instance"
)

// Valid reports whether s is a known merge strategy.
func (s MergeStrategy) Valid() bool {
	return s == MergeByProductID || s == MergeByInstance
}

// CartLine is one entry in the cart. LineID is a generated unique id; in
// by-product-id mode lines are nevertheless addressed by their product id.
// Quantity is always 1 in by-instance mode, and Note is only meaningful there.
type CartLine struct {
	LineID    string          `json:"line_id"`
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
}

// Subtotal returns price multiplied by quantity for this line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TotalPrice sums price×quantity over the given lines. It is recomputed on
// every call; callers must not cache it across mutations.
func TotalPrice(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount returns the total number of units across the given lines.
func ItemCount(lines []CartLine) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

// FormatRupees renders a decimal amount with the rupee sign and two decimal
// places, matching the storefront's display convention.
func FormatRupees(amount decimal.Decimal) string {
	return fmt.Sprintf("₹%s", amount.StringFixed(2))
}

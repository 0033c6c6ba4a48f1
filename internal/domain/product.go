package domain

import "github.com/shopspring/decimal"

// Product represents one catalog entry, parsed from the published
// spreadsheet. IDs are unique within a catalog snapshot but may change
// between refreshes; cart lines referencing a stale id simply fail lookup.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
}

// Thumbnail returns the primary image URL, or empty if the product has none.
func (p Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

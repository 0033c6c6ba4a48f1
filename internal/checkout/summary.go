package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/prwkhar/aura-gift/internal/domain"
)

// BuildSummary renders the human-readable order summary submitted to the
// form relay and handed off to the confirmation view: one numbered block per
// line with name and unit price, the quantity or gift note beneath it, and
// the total on the trailing line.
func BuildSummary(lines []domain.CartLine, strategy domain.MergeStrategy) (string, decimal.Decimal) {
	var b strings.Builder
	b.WriteString("--- ORDER SUMMARY ---\n\n")

	for i, l := range lines {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, l.Name, domain.FormatRupees(l.Price))
		if strategy == domain.MergeByProductID {
			fmt.Fprintf(&b, "   Qty: %d\n", l.Quantity)
		} else {
			note := l.Note
			if note == "" {
				note = "None"
			}
			fmt.Fprintf(&b, "   Note: %s\n", note)
		}
	}

	total := domain.TotalPrice(lines)
	fmt.Fprintf(&b, "\nTOTAL: %s", domain.FormatRupees(total))

	return b.String(), total
}

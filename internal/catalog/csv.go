package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/prwkhar/aura-gift/internal/domain"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
)

// Column names the ingestion contract depends on. The header row of the
// published sheet defines field positions; only "id" is mandatory.
const (
	colID          = "id"
	colName        = "name"
	colPrice       = "price"
	colDescription = "description"
	colImageURLs   = "image_urls"
)

// ParseStats reports best-effort ingestion outcomes for one document.
type ParseStats struct {
	Rows      int // data records seen
	Dropped   int // records dropped for a missing or non-numeric id
	Defaulted int // records kept with a zeroed price after a parse failure
}

// Parse tokenizes a CSV document into products. The first record is the
// header row defining field names by position. Records shorter than the
// header are padded with empty fields rather than rejected. Records whose
// id field is missing or non-numeric are dropped and counted in the stats.
//
// Parse fails only when the document cannot be tokenized into rows at all:
// an empty body or a header row without an id column.
func Parse(text string) ([]domain.Product, ParseStats, error) {
	var stats ParseStats

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, stats, apperrors.Parse("catalog document is empty")
	}

	lines := strings.Split(text, "\n")

	headers := splitRecord(lines[0])
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	if _, ok := index[colID]; !ok {
		return nil, stats, apperrors.Parse("catalog header row has no id column")
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	products := make([]domain.Product, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Rows++

		record := splitRecord(line)

		id, err := strconv.Atoi(field(record, colID))
		if err != nil {
			stats.Dropped++
			continue
		}

		price, err := decimal.NewFromString(field(record, colPrice))
		if err != nil {
			price = decimal.Zero
			stats.Defaulted++
		}

		products = append(products, domain.Product{
			ID:          id,
			Name:        field(record, colName),
			Price:       price,
			Description: field(record, colDescription),
			Images:      strings.Fields(field(record, colImageURLs)),
		})
	}

	return products, stats, nil
}

// splitRecord splits one CSV record into fields, honoring double quotes: a
// quoted field keeps its literal commas and loses its surrounding quotes.
// Doubled-quote escaping inside quoted fields is not supported; the sheet
// export never produces it.
func splitRecord(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			b.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(b.String()))
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(b.String()))

	return fields
}

// cleanField trims boundary whitespace and strips one pair of surrounding
// quotes.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

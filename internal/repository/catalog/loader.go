package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/tilemart/tilequery/internal/domain"
)

// priceRegex extracts the numeric part of price strings like "₹ 85" or "Rs. 120.50".
var priceRegex = regexp.MustCompile(`(?:₹|rs\.?)?\s*([0-9]+(?:\.[0-9]+)?)`)

// parseProducts reads CSV rows into products. The header row maps columns by
// name, so column order in the source file does not matter. Rows whose price
// cannot be parsed are retained with an unknown price.
func parseProducts(r io.Reader) ([]domain.Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("catalog source has no name column")
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []domain.Product
	for rowNum := 1; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}

		name := field(row, "name")
		if name == "" {
			continue
		}

		price, priceKnown := parsePrice(field(row, "price"))

		p := domain.Product{
			ID:             fmt.Sprintf("tile-%04d-%s", rowNum, slug(name)),
			Name:           name,
			Description:    field(row, "description"),
			Material:       field(row, "material"),
			Finish:         field(row, "finish"),
			Size:           field(row, "size"),
			Price:          price,
			PriceKnown:     priceKnown,
			PriceUnit:      field(row, "price unit"),
			DesignTypes:    field(row, "design type"),
			Applications:   field(row, "applications"),
			QtyPerBox:      parseNumber(field(row, "qty per box")),
			AreaPerBox:     parseNumber(field(row, "area per box")),
			AreaUnit:       field(row, "area unit"),
			Faces:          int(parseNumber(field(row, "faces"))),
			Origin:         field(row, "origin"),
			LayingPatterns: field(row, "laying patterns"),
			Category:       strings.ToLower(field(row, "category")),
			URL:            field(row, "url"),
			ImageURL:       field(row, "image url"),
		}
		products = append(products, p)
	}

	return products, nil
}

// parsePrice coerces a price string to a number. The source mixes plain
// numbers with currency-prefixed strings; anything else is unknown.
func parsePrice(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "nan" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	m := priceRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	s := slugRegex.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

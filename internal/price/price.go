// Package price normalizes externally supplied price values before they are
// trusted anywhere in the order pipeline.
package price

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Clean converts a price of unknown provenance (JSON number, formatted string
// like "12,50 €", nil) into a decimal. Empty or unparsable input yields zero.
func Clean(v any) decimal.Decimal {
	switch p := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return p
	case float64:
		return decimal.NewFromFloat(p)
	case float32:
		return decimal.NewFromFloat32(p)
	case int:
		return decimal.NewFromInt(int64(p))
	case int64:
		return decimal.NewFromInt(p)
	case json.Number:
		return fromString(string(p))
	case string:
		return fromString(p)
	default:
		return decimal.Zero
	}
}

// fromString keeps only digits, periods and commas, then treats commas as
// decimal separators ("12,50 €" -> 12.50).
func fromString(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
			b.WriteByte('.')
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

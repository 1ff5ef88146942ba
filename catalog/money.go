package catalog

import (
	"strconv"
	"strings"
)

// FormatCOP formats an integer amount (in COP) as a string like "$12.500".
// Uses dot as thousands separator; the sign follows the currency symbol ("$-1.000").
func FormatCOP(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 2)
	b.WriteByte('$')
	if neg {
		b.WriteByte('-')
	}

	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// PriceText truncates the price to whole pesos before formatting.
func PriceText(price float64) string {
	return FormatCOP(int64(price))
}

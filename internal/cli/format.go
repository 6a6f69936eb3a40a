// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats a statement amount with two decimals and thousands
// separators. Negatives use accounting parentheses.
// e.g., 1234.5 -> "1,234.50", -3 -> "(3.00)"
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	d = d.Abs()

	whole := d.Truncate(0)
	frac := d.Sub(whole).Shift(2).IntPart()
	s := FormatNumber(whole.IntPart()) + fmt.Sprintf(".%02d", frac)
	if neg {
		return "(" + s + ")"
	}
	return s
}

// FormatDecimal formats an already-rounded decimal like FormatAmount.
func FormatDecimal(d decimal.Decimal) string {
	return FormatAmount(d.InexactFloat64())
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDriver renders an assumption value for display. Rates below one are
// shown as percentages; everything else as a plain amount.
func FormatDriver(v any) string {
	switch n := v.(type) {
	case float64:
		if n != 0 && math.Abs(n) < 1 {
			return FormatPercent(n)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int, int64:
		return fmt.Sprintf("%d", n)
	case nil:
		return "-"
	case string:
		return strconv.Quote(n)
	default:
		return fmt.Sprint(n)
	}
}

// FormatDelta formats the change between two amounts with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatAmount(delta)
	}
	return "-" + FormatAmount(-delta)
}

// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Infinity is shown in place of an unbounded ratio.
const Infinity = "∞"

// FormatMoney formats an amount with thousands separators and two decimals,
// e.g. 1234567.891 -> "$1,234,567.89". Large amounts drop the cents.
func FormatMoney(v float64, symbol string) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Infinity
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v >= 1_000_000 {
		return sign + symbol + FormatNumber(int64(math.Round(v)))
	}
	whole := math.Floor(v)
	cents := int64(math.Round((v - whole) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, FormatNumber(int64(whole)), cents)
}

// FormatDecimal formats an exact amount the same way as FormatMoney.
func FormatDecimal(d decimal.Decimal, symbol string) string {
	return FormatMoney(d.Round(2).InexactFloat64(), symbol)
}

// FormatSignedMoney prefixes non-negative amounts with "+".
func FormatSignedMoney(v float64, symbol string) string {
	if v >= 0 {
		return "+" + FormatMoney(v, symbol)
	}
	return FormatMoney(v, symbol)
}

// FormatCompact abbreviates large amounts for chart axes,
// e.g. 1234 -> "1.2K", 1234567 -> "1.2M".
func FormatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
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

// FormatPercent formats a 0-1 ratio as a percentage string.
func FormatPercent(f float64) string {
	if math.IsInf(f, 0) {
		return Infinity
	}
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatPct formats a value that is already a percentage.
func FormatPct(p float64) string {
	if math.IsInf(p, 0) {
		return Infinity
	}
	return fmt.Sprintf("%.2f%%", p)
}

// FormatMonths formats a month count such as an emergency fund runway.
func FormatMonths(m float64) string {
	if math.IsInf(m, 0) {
		return Infinity
	}
	return fmt.Sprintf("%.1f mo", m)
}

// FormatRatio formats a plain multiplier, e.g. 1.25 -> "1.25x".
func FormatRatio(r float64) string {
	if math.IsInf(r, 0) {
		return Infinity
	}
	return fmt.Sprintf("%.2fx", r)
}

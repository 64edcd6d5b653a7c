// Package common provides shared utilities for kabureco
package common

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// FormatYen formats an integer yen amount with the yen symbol and thousands
// separators. JPY carries no minor unit, so amounts map 1:1 to money units.
func FormatYen(v int64) string {
	return money.New(v, money.JPY).Display()
}

// FormatSignedYen formats a yen amount with an explicit +/- prefix.
func FormatSignedYen(v int64) string {
	if v >= 0 {
		return "+" + FormatYen(v)
	}
	return FormatYen(v)
}

// FormatPct formats a percentage with two decimal places.
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatSignedPct formats a percentage with a +/- prefix.
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

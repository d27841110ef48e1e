package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountNoise = strings.NewReplacer(" ", "", "\u00a0", "", "€", "", "$", "", "£", "")

// parseAmount reads both European ("1.234,56") and dot-decimal ("1,234.56")
// amounts. Whichever separator comes last is the decimal one; a lone comma
// is always decimal, and several dots with no comma are thousands.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := amountNoise.Replace(s)

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	switch {
	case lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	return decimal.NewFromString(clean)
}

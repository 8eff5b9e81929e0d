package extractor

import (
	"strings"

	"github.com/shopspring/decimal"
)

// formatAmount renders a value the way Brazilian spreadsheets expect:
// absolute, two decimals, dot-grouped thousands and a comma separator.
// The sign lives in the D/C flag, not here.
func formatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, cents, _ := strings.Cut(fixed, ".")
	return groupThousands(intPart) + "," + cents
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

package normalizer

import (
	"regexp"
	"strings"
)

var (
	amountWithAsteriskRe = regexp.MustCompile(`<TRNAMT>([^<\n]+)\*`)
	amountValueRe        = regexp.MustCompile(`<TRNAMT>([^<\n]+)`)

	// Brazilian grouped form: thousands separated by dots, a final dot before
	// exactly two cent digits. 9.500.00 is 9500.00, not a malformed decimal.
	groupedAmountRe = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+\.\d{2}$`)
)

// NormalizeAmounts canonicalizes TRNAMT values. Trailing asterisk markers are
// stripped first, then dot-grouped Brazilian amounts are collapsed to plain
// decimals by keeping only the final dot. Values already in canonical form,
// and anything that does not match the grouped shape, pass through unchanged,
// which makes the rewrite idempotent. Returns the fix count.
func NormalizeAmounts(s string) (string, int) {
	fixes := 0
	s = amountWithAsteriskRe.ReplaceAllStringFunc(s, func(m string) string {
		fixes++
		return strings.TrimSuffix(m, "*")
	})
	s = amountValueRe.ReplaceAllStringFunc(s, func(m string) string {
		value := strings.TrimSpace(strings.TrimPrefix(m, "<TRNAMT>"))
		if !groupedAmountRe.MatchString(value) {
			return m
		}
		fixes++
		i := strings.LastIndex(value, ".")
		return "<TRNAMT>" + strings.ReplaceAll(value[:i], ".", "") + value[i:]
	})
	return s, fixes
}

package normalizer

import "regexp"

var (
	stmtTrnBlockRe = regexp.MustCompile(`(?s)<STMTTRN>.*?</STMTTRN>`)

	// An empty value shows up either as the next tag immediately following,
	// or as nothing before the end of the line.
	emptyAmountBeforeTagRe = regexp.MustCompile(`<TRNAMT>\s*<`)
	emptyAmountAtEOLRe     = regexp.MustCompile(`(?m)<TRNAMT>\s*$`)
	emptyFitIDBeforeTagRe  = regexp.MustCompile(`<FITID>\s*<`)
	emptyFitIDAtEOLRe      = regexp.MustCompile(`(?m)<FITID>\s*$`)
)

// FilterTransactions removes whole <STMTTRN> blocks whose TRNAMT or FITID
// carries no value. Banks emit these as placeholders for scheduled or
// cancelled entries and strict parsers choke on them. Blocks with both fields
// populated pass through untouched. Returns how many blocks were dropped.
func FilterTransactions(s string) (string, int) {
	dropped := 0
	s = stmtTrnBlockRe.ReplaceAllStringFunc(s, func(block string) string {
		if hasEmptyField(block) {
			dropped++
			return ""
		}
		return block
	})
	return s, dropped
}

func hasEmptyField(block string) bool {
	return emptyAmountBeforeTagRe.MatchString(block) ||
		emptyAmountAtEOLRe.MatchString(block) ||
		emptyFitIDBeforeTagRe.MatchString(block) ||
		emptyFitIDAtEOLRe.MatchString(block)
}

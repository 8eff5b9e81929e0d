// Package normalizer repairs malformed OFX statement text before parsing.
//
// Real-world bank exports arrive with mixed encodings, broken key:value
// headers, localized dates, placeholder transaction blocks and decorated
// amounts. Each repair is an independent pure function over text; Normalizer
// composes them in a fixed order and reports every fix through its logger so
// frequent fallbacks are visible to operators.
package normalizer

import (
	"github.com/charmbracelet/log"
)

type Normalizer struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize runs the full repair sequence. The order matters: the header must
// be clean and dates/amounts canonical before a strict parser sees the text,
// and empty transaction blocks are removed before amounts are touched.
func (n *Normalizer) Normalize(data []byte) string {
	text, fellBack := Decode(data)
	if fellBack {
		n.logger.Debug("input is not valid UTF-8, decoded as ISO-8859-1", "bytes", len(data))
	}

	text = NormalizeNewlines(text)

	text, inserted := NormalizeHeader(text)
	if inserted {
		n.logger.Debug("document starts at a tag, inserted default OFX header")
	}

	text, dates := NormalizeDates(text)
	if dates > 0 {
		n.logger.Debug("rewrote localized date values", "count", dates)
	}

	text, dropped := FilterTransactions(text)
	if dropped > 0 {
		n.logger.Debug("dropped transaction blocks with empty TRNAMT or FITID", "count", dropped)
	}

	text, amounts := NormalizeAmounts(text)
	if amounts > 0 {
		n.logger.Debug("normalized amount values", "count", amounts)
	}

	return text
}

// Package extractor runs the full statement pipeline: normalize the raw
// bytes, hand them to the OFX parser, resolve the issuing bank and flatten
// every transaction into a display row.
package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/extratofx/extratofx/pkg/banks"
	"github.com/extratofx/extratofx/pkg/models"
	"github.com/extratofx/extratofx/pkg/normalizer"
	"github.com/extratofx/extratofx/pkg/ofx"
)

// ErrNoTransactions reports a statement that parsed cleanly but carried no
// transaction rows.
var ErrNoTransactions = errors.New("no transactions extracted")

var (
	bankIDRe = regexp.MustCompile(`<BANKID>(\d+)`)
	orgRe    = regexp.MustCompile(`<ORG>([^<\n]+)`)
)

type parseFunc func(data []byte) (*models.Statement, error)

type Extractor struct {
	norm   *normalizer.Normalizer
	banks  *banks.Table
	logger *log.Logger
	parse  parseFunc
}

func New(table *banks.Table, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{
		norm:   normalizer.New(logger),
		banks:  table,
		logger: logger,
		parse:  ofx.Parse,
	}
}

// Normalize repairs the raw statement bytes and guarantees the parser will
// see a UTF-8 declaration near the start of the document.
func (e *Extractor) Normalize(data []byte) []byte {
	text := e.norm.Normalize(data)
	payload, prepended := normalizer.EnsureHeader([]byte(text))
	if prepended {
		e.logger.Debug("no UTF-8 declaration near document start, prepended default header")
	}
	return payload
}

// Parse normalizes and parses the statement without flattening it, for
// callers that want the structured form.
func (e *Extractor) Parse(data []byte) (*models.Statement, error) {
	payload := e.Normalize(data)
	st, err := e.parse(payload)
	if err != nil {
		return nil, fmt.Errorf("parsing normalized statement: %w", err)
	}
	return st, nil
}

// Extract runs the whole pipeline and returns one display row per
// transaction. A statement the parser rejects, or one with no transactions,
// yields an error and no rows; there are no partial results.
func (e *Extractor) Extract(data []byte) ([]models.TransactionRow, error) {
	payload := e.Normalize(data)

	st, err := e.parse(payload)
	if err != nil {
		e.logger.Error("ofx parser rejected normalized statement", "err", err, "bytes", len(payload))
		return nil, fmt.Errorf("parsing normalized statement: %w", err)
	}

	if len(st.Transactions) == 0 {
		e.logger.Warn("statement parsed but carried no transactions")
		return nil, ErrNoTransactions
	}

	bank := e.resolveBankName(st, string(payload))
	rows := make([]models.TransactionRow, 0, len(st.Transactions))
	for _, tx := range st.Transactions {
		rows = append(rows, mapRow(tx, bank))
	}
	e.logger.Debug("extracted transactions", "count", len(rows), "bank", bank)
	return rows, nil
}

// resolveBankName picks the institution name for the statement. The COMPE
// code comes from the parsed account when present, otherwise from a BANKID
// scan over the normalized text. Codes missing from the table fall through
// to the ORG literal, and only then to the unknown-bank sentinel.
func (e *Extractor) resolveBankName(st *models.Statement, text string) string {
	code := st.Account.BankID
	if code == "" {
		if m := bankIDRe.FindStringSubmatch(text); m != nil {
			code = m[1]
		}
	}
	if code != "" {
		if name, ok := e.banks.Lookup(code); ok {
			return name
		}
		e.logger.Debug("bank code not in COMPE table", "code", code)
	}
	if m := orgRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return banks.Unknown
}

func mapRow(tx models.Transaction, bank string) models.TransactionRow {
	description := tx.Memo
	if description == "" {
		description = tx.Payee
	}
	flag := "C"
	if strings.ToLower(tx.Type) == "debit" {
		flag = "D"
	}
	return models.TransactionRow{
		Date:             tx.Date.Format("02/01/2006"),
		Description:      description,
		DocumentNumber:   tx.CheckNum,
		Amount:           formatAmount(tx.Amount),
		DebitCreditFlag:  flag,
		CounterpartyName: tx.Payee,
		BankName:         bank,
	}
}

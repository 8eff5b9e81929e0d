// Package ofx adapts the ofxgo parser to this pipeline's statement model.
package ofx

import (
	"bytes"
	"fmt"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/extratofx/extratofx/pkg/models"
)

// Parse reads an OFX document and flattens every bank and credit card
// statement it carries into a single models.Statement. ofxgo is strict about
// structure, so callers are expected to run the normalizer first.
func Parse(data []byte) (*models.Statement, error) {
	resp, err := ofxgo.ParseResponse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing ofx document: %w", err)
	}

	st := &models.Statement{}
	for _, msg := range resp.Bank {
		b, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		if st.Account.AcctID == "" {
			st.Account = models.Account{
				BankID:   string(b.BankAcctFrom.BankID),
				BranchID: string(b.BankAcctFrom.BranchID),
				AcctID:   string(b.BankAcctFrom.AcctID),
				Type:     b.BankAcctFrom.AcctType.String(),
			}
		}
		if st.Currency == "" {
			st.Currency = b.CurDef.String()
		}
		appendList(st, b.BankTranList)
	}
	for _, msg := range resp.CreditCard {
		cc, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		if st.Account.AcctID == "" {
			st.Account = models.Account{
				AcctID: string(cc.CCAcctFrom.AcctID),
				Type:   "CREDITCARD",
			}
		}
		if st.Currency == "" {
			st.Currency = cc.CurDef.String()
		}
		appendList(st, cc.BankTranList)
	}
	return st, nil
}

func appendList(st *models.Statement, list *ofxgo.TransactionList) {
	if list == nil {
		return
	}
	if st.Start.IsZero() {
		st.Start = list.DtStart.Time
	}
	if st.End.IsZero() || list.DtEnd.Time.After(st.End) {
		st.End = list.DtEnd.Time
	}
	for _, tr := range list.Transactions {
		st.Transactions = append(st.Transactions, convert(tr))
	}
}

func convert(tr ofxgo.Transaction) models.Transaction {
	out := models.Transaction{
		Date:     tr.DtPosted.Time,
		Type:     tr.TrnType.String(),
		Amount:   toDecimal(tr.TrnAmt),
		FITID:    string(tr.FiTID),
		CheckNum: string(tr.CheckNum),
		Memo:     string(tr.Memo),
	}
	// NAME and the PAYEE aggregate are mutually exclusive in OFX.
	if tr.Payee != nil {
		out.Payee = string(tr.Payee.Name)
	} else {
		out.Payee = string(tr.Name)
	}
	return out
}

func toDecimal(a ofxgo.Amount) decimal.Decimal {
	if d, err := decimal.NewFromString(a.String()); err == nil {
		return d
	}
	// Amount is a big.Rat underneath; FloatString always yields a plain
	// decimal the string constructor accepts.
	d, _ := decimal.NewFromString(a.FloatString(2))
	return d
}

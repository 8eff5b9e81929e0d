package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is the structured result handed back by the OFX parser.
type Statement struct {
	Account      Account
	Currency     string
	Start        time.Time
	End          time.Time
	Transactions []Transaction
}

// Account identifies the bank account the statement belongs to.
type Account struct {
	BankID   string
	BranchID string
	AcctID   string
	Type     string
}

// Transaction is a single statement entry as parsed from the OFX body.
type Transaction struct {
	Date     time.Time
	Type     string // TRNTYPE as reported by the bank, e.g. "DEBIT"
	Amount   decimal.Decimal
	FITID    string
	CheckNum string
	Payee    string
	Memo     string
}

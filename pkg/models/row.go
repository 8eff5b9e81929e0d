package models

// TransactionRow is the flattened display record produced for each surviving
// transaction. All fields are formatted for presentation: dates as DD/MM/YYYY,
// amounts as absolute values with Brazilian separators (1.234,56).
type TransactionRow struct {
	Date             string
	Description      string
	DocumentNumber   string
	Amount           string
	DebitCreditFlag  string // "D" for debits, "C" for everything else
	CounterpartyName string
	BankName         string
}

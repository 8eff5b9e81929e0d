// Package export renders extracted transaction rows as files spreadsheet
// tools open directly: semicolon-separated CSV and XLSX. It contains no
// pipeline logic; rows arrive fully formatted.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/extratofx/extratofx/pkg/models"
)

// Columns is the header row of every export, in display order.
var Columns = []string{"Data", "Histórico", "Documento", "Débito/Crédito", "Valor", "Origem/Destino", "Banco"}

// FilterFunc selects which rows make it into an export. A nil filter keeps
// everything.
type FilterFunc func(models.TransactionRow) bool

// CSV renders rows as semicolon-separated values, the dialect Brazilian
// spreadsheet tools default to.
func CSV(rows []models.TransactionRow, filter FilterFunc) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		if filter != nil && !filter(r) {
			continue
		}
		if err := w.Write(record(r)); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders rows as a single-sheet workbook.
func XLSX(rows []models.TransactionRow, filter FilterFunc) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Extrato"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeLine(f, sheet, 1, Columns); err != nil {
		return nil, err
	}
	line := 2
	for _, r := range rows {
		if filter != nil && !filter(r) {
			continue
		}
		if err := writeLine(f, sheet, line, record(r)); err != nil {
			return nil, err
		}
		line++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile exports rows to path, picking the format from the extension.
// Anything that is not .xlsx is written as CSV.
func WriteFile(path string, rows []models.TransactionRow, filter FilterFunc) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		data, err = XLSX(rows, filter)
	} else {
		data, err = CSV(rows, filter)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeLine(f *excelize.File, sheet string, line int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, line)
		if err != nil {
			return fmt.Errorf("addressing cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing cell %s: %w", cell, err)
		}
	}
	return nil
}

func record(r models.TransactionRow) []string {
	return []string{
		r.Date,
		r.Description,
		r.DocumentNumber,
		r.DebitCreditFlag,
		r.Amount,
		r.CounterpartyName,
		r.BankName,
	}
}

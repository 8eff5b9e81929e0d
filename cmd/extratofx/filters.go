package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/extratofx/extratofx/pkg/config"
	"github.com/extratofx/extratofx/pkg/export"
	"github.com/extratofx/extratofx/pkg/extractor"
	"github.com/extratofx/extratofx/pkg/models"
)

type filters struct {
	startDate string
	endDate   string
	minAmount float64
	maxAmount float64
	payee     string
}

type FileProcessor struct {
	logger    *log.Logger
	config    *config.Config
	extractor *extractor.Extractor
	filters   *filters
}

func (f *filters) toFilterFunc() export.FilterFunc {
	return func(r models.TransactionRow) bool {
		if f.startDate != "" {
			start, _ := time.Parse("02/01/2006", f.startDate)
			date, _ := time.Parse("02/01/2006", r.Date)
			if date.Before(start) {
				return false
			}
		}
		if f.endDate != "" {
			end, _ := time.Parse("02/01/2006", f.endDate)
			date, _ := time.Parse("02/01/2006", r.Date)
			if date.After(end) {
				return false
			}
		}
		if f.minAmount != 0 && parseAmount(r.Amount) < f.minAmount {
			return false
		}
		if f.maxAmount != 0 && parseAmount(r.Amount) > f.maxAmount {
			return false
		}
		if f.payee != "" {
			needle := strings.ToLower(f.payee)
			if !strings.Contains(strings.ToLower(r.CounterpartyName), needle) &&
				!strings.Contains(strings.ToLower(r.Description), needle) {
				return false
			}
		}
		return true
	}
}

// parseAmount reads the localized display value (1.234,56) back as a float
// for threshold comparisons. Row amounts are absolute by construction.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func NewFileProcessor(logger *log.Logger, cfg *config.Config, ex *extractor.Extractor, filters *filters) *FileProcessor {
	return &FileProcessor{
		logger:    logger,
		config:    cfg,
		extractor: ex,
		filters:   filters,
	}
}

func (p *FileProcessor) ProcessDirectory(inputDir string) error {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".ofx") {
			continue
		}

		if err := p.ProcessFile(filepath.Join(inputDir, entry.Name())); err != nil {
			p.logger.Warn("error processing file", "error", err)
		}
	}

	return nil
}

func (p *FileProcessor) ProcessFile(inputPath string) error {
	fileBytes, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	rows, err := p.extractor.Extract(fileBytes)
	if err != nil {
		return fmt.Errorf("failed to process file: %w", err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		di, _ := time.Parse("02/01/2006", rows[i].Date)
		dj, _ := time.Parse("02/01/2006", rows[j].Date)
		return di.Before(dj)
	})

	if p.config.Output == "" {
		outputBytes, err := export.CSV(rows, p.filters.toFilterFunc())
		if err != nil {
			return err
		}
		fmt.Print(string(outputBytes))
		return nil
	}

	if err := os.MkdirAll(p.config.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	name := filepath.Base(inputPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	suffix := "-extratofx.csv"
	if p.config.XLSX {
		suffix = "-extratofx.xlsx"
	}
	outPath := filepath.Join(p.config.Output, stem+suffix)
	if err := export.WriteFile(outPath, rows, p.filters.toFilterFunc()); err != nil {
		return err
	}
	p.logger.Info("wrote spreadsheet", "path", outPath)
	return nil
}

// Package service batch-converts directories of OFX statements.
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/extratofx/extratofx/pkg/config"
	"github.com/extratofx/extratofx/pkg/export"
	"github.com/extratofx/extratofx/pkg/extractor"
)

type Processor struct {
	config    *config.Config
	extractor *extractor.Extractor
	logger    *log.Logger
}

func NewProcessor(cfg *config.Config, ex *extractor.Extractor, logger *log.Logger) *Processor {
	return &Processor{
		config:    cfg,
		extractor: ex,
		logger:    logger,
	}
}

// ProcessDirectory converts every .ofx file in dir. A statement that fails
// is logged and skipped; the rest of the directory still gets processed.
func (p *Processor) ProcessDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(dir, entry); err != nil {
			p.logger.Error("failed to process entry", "file", entry.Name(), "error", err)
		}
	}

	return nil
}

func (p *Processor) processEntry(dir string, entry os.DirEntry) error {
	if entry.IsDir() {
		return nil
	}
	if !strings.HasSuffix(strings.ToLower(entry.Name()), ".ofx") {
		return nil
	}

	inputPath := filepath.Join(dir, entry.Name())
	outFile := p.outputPath(inputPath, entry.Name())

	p.logger.Info("processing statement", "path", inputPath)

	if err := p.ProcessFile(inputPath, outFile); err != nil {
		return err
	}

	p.logger.Info("processed statement", "input", inputPath, "output", outFile)
	return nil
}

// ProcessFile converts a single statement into outputPath.
func (p *Processor) ProcessFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}

	rows, err := p.extractor.Extract(data)
	if err != nil {
		return fmt.Errorf("extracting transactions: %w", err)
	}

	if err := export.WriteFile(outputPath, rows, nil); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func (p *Processor) outputPath(inputPath, fileName string) string {
	ext := filepath.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	suffix := "-extratofx.csv"
	if p.config.XLSX {
		suffix = "-extratofx.xlsx"
	}
	if p.config.Output != "" {
		return filepath.Join(p.config.Output, baseName+suffix)
	}
	return strings.TrimSuffix(inputPath, ext) + suffix
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/extratofx/extratofx/pkg/banks"
	"github.com/extratofx/extratofx/pkg/config"
	"github.com/extratofx/extratofx/pkg/extractor"
	"github.com/extratofx/extratofx/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:   "extratofx",
	Short: "Convert malformed Brazilian OFX statements into clean spreadsheets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <input_path>",
	Short: "Extract transactions from OFX statements into CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		table, err := banks.Load(cfg.Banks)
		if err != nil {
			return err
		}

		processor := NewFileProcessor(logger, cfg, extractor.New(table, logger), &cliFilters)

		matches, err := filepath.Glob(args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files found matching pattern %s", args[0])
		}

		for _, match := range matches {
			fileInfo, err := os.Stat(match)
			if err != nil {
				logger.Warn("failed to stat file", "error", err, "file", match)
				continue
			}

			if fileInfo.IsDir() {
				if err := processor.ProcessDirectory(match); err != nil {
					logger.Warn("failed to process directory", "error", err, "dir", match)
				}
			} else {
				if err := processor.ProcessFile(match); err != nil {
					logger.Warn("failed to process file", "error", err, "file", match)
				}
			}
		}
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Convert every OFX statement in a directory, writing one file per input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		table, err := banks.Load(cfg.Banks)
		if err != nil {
			return err
		}

		processor := service.NewProcessor(cfg, extractor.New(table, logger), logger)
		return processor.ProcessDirectory(args[0])
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Print the repaired OFX document without parsing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		table, err := banks.Load(cfg.Banks)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading statement: %w", err)
		}

		out := extractor.New(table, logger).Normalize(data)

		if cfg.Output == "" {
			_, err = os.Stdout.Write(out)
			return err
		}

		if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		name := filepath.Base(args[0])
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		outPath := filepath.Join(cfg.Output, stem+"-normalized.ofx")
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("writing normalized document: %w", err)
		}
		logger.Info("wrote normalized document", "path", outPath)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Parse a statement and dump its structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		table, err := banks.Load(cfg.Banks)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading statement: %w", err)
		}

		st, err := extractor.New(table, logger).Parse(data)
		if err != nil {
			return err
		}

		pp.Println(st)
		return nil
	},
}

// setup builds the logger and configuration every subcommand starts from.
func setup(cmd *cobra.Command) (*log.Logger, *config.Config, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "extratofx",
	})

	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	if level, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}

	return logger, cfg, nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory (default: stdout for convert)")
	rootCmd.PersistentFlags().String("banks", "", "COMPE bank table YAML (default: embedded table)")
	rootCmd.PersistentFlags().String("level", "", "Log level (debug, info, warn, error)")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.startDate, "start", "", "Start date (DD/MM/YYYY)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.endDate, "end", "", "End date (DD/MM/YYYY)")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.minAmount, "min", 0, "Minimum absolute amount")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.maxAmount, "max", 0, "Maximum absolute amount")
	rootCmd.PersistentFlags().StringVar(&cliFilters.payee, "payee", "", "Filter by counterparty or description (case insensitive)")

	// Flags specific to the conversion subcommands
	convertCmd.Flags().Bool("xlsx", false, "Write XLSX instead of CSV")
	batchCmd.Flags().Bool("xlsx", false, "Write XLSX instead of CSV")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/extratofx/extratofx/pkg/banks"
	"github.com/extratofx/extratofx/pkg/config"
	"github.com/extratofx/extratofx/pkg/extractor"
	"github.com/extratofx/extratofx/pkg/server"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "extratofx",
	})

	var (
		cfgFile = flag.String("config", "", "Config file (default is config.yaml)")
		port    = flag.String("port", "", "Server port (overrides the configured listen address)")
	)
	flag.Parse()

	cfg, err := config.Build(*cfgFile, nil)
	if err != nil {
		logger.Fatal("loading configuration failed", "err", err)
	}
	if level, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}

	table, err := banks.Load(cfg.Banks)
	if err != nil {
		logger.Fatal("loading bank table failed", "err", err)
	}

	srv := server.New(cfg, extractor.New(table, logger), logger)

	addr := cfg.Listen
	if *port != "" {
		addr = fmt.Sprintf("0.0.0.0:%s", *port)
	}
	logger.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

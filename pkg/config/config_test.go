package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if cfg.Listen != ":8080" {
		t.Errorf("expected default listen :8080, got %q", cfg.Listen)
	}
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Level)
	}
	if cfg.XLSX {
		t.Error("expected xlsx default false")
	}
}

func TestBuildFromFile(t *testing.T) {
	content := `output: /tmp/extratos
banks: /etc/extratofx/banks.yaml
listen: ":9000"
level: debug
xlsx: true
`
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	cfg, err := Build(cfgFile, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if cfg.Output != "/tmp/extratos" {
		t.Errorf("expected output /tmp/extratos, got %q", cfg.Output)
	}
	if cfg.Banks != "/etc/extratofx/banks.yaml" {
		t.Errorf("expected banks path, got %q", cfg.Banks)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("expected listen :9000, got %q", cfg.Listen)
	}
	if cfg.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Level)
	}
	if !cfg.XLSX {
		t.Error("expected xlsx true")
	}
}

func TestBuildMissingExplicitFile(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestBuildFlagOverrides(t *testing.T) {
	content := "output: /from/file\n"
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	if err := flags.Set("output", "/from/flag"); err != nil {
		t.Fatalf("Failed to set flag: %v", err)
	}

	cfg, err := Build(cfgFile, flags)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.Output != "/from/flag" {
		t.Errorf("expected flag to win, got %q", cfg.Output)
	}
}

func TestBuildEnvOverrides(t *testing.T) {
	t.Setenv("EXTRATOFX_LISTEN", ":7777")

	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.Listen != ":7777" {
		t.Errorf("expected env to win, got %q", cfg.Listen)
	}
}

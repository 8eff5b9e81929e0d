// Package config loads settings for the extratofx binaries.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config carries everything the binaries need to run.
type Config struct {
	// Output is the file or directory results are written to. Empty means
	// next to the input, or stdout for single conversions.
	Output string `mapstructure:"output"`
	// Banks points at a YAML COMPE table overriding the embedded one.
	Banks string `mapstructure:"banks"`
	// Listen is the HTTP server bind address.
	Listen string `mapstructure:"listen"`
	// Level is the log level name (debug, info, warn, error).
	Level string `mapstructure:"level"`
	// XLSX switches batch output from CSV to XLSX.
	XLSX bool `mapstructure:"xlsx"`
}

// Build loads configuration in increasing precedence: defaults, config.yaml
// (or cfgFile when given), .env plus EXTRATOFX_* environment variables, then
// explicitly set command-line flags.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// A .env next to the binary is optional.
	_ = gotenv.Load()

	v := viper.New()
	v.SetDefault("output", "")
	v.SetDefault("banks", "")
	v.SetDefault("listen", ":8080")
	v.SetDefault("level", "info")
	v.SetDefault("xlsx", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("EXTRATOFX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Only an explicitly requested file is required to exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

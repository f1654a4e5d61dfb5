// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reference-search CLI: a web page
// and command line for keyword search over the careers-guidance reference
// and book spreadsheets.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reference-search/internal/secrets"
	"github.com/pdiddy/reference-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the effective configuration, resolved before any subcommand runs.
	cfg types.Config

	// logger writes structured logs to stderr.
	logger zerolog.Logger

	// configErr is set by initConfig when a config file exists but cannot be read.
	configErr error
)

// rootCmd is the base command for the reference-search CLI.
var rootCmd = &cobra.Command{
	Use:   "reference-search",
	Short: "Keyword search over the careers-guidance references and books",
	Long: `reference-search loads two spreadsheets, a list of journal publications and a
list of books, and finds the rows that mention any of up to two keywords.

Run "serve" for the web page, or "search" and "sample" to print results in the
terminal. Sources, column layout, caching and logging are read from
reference-search.yaml, REFERENCE_SEARCH_* environment variables, and .secrets/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		logger = newLogger(c.Log, os.Stderr)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug().Str("file", f).Msg("using config file")
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		if used := secrets.Apply(&c, s); len(used) > 0 {
			logger.Info().Strs("secrets", used).Msg("loaded secrets")
		}
		cfg = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reference-search.yaml or ~/.config/reference-search/reference-search.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides log.level)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reference-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reference-search"))
		}
	}

	viper.SetEnvPrefix("REFERENCE_SEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper(), types.DefaultConfig())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config file: %w", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

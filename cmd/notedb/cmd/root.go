/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ssargent/notedb/pkg/config"
	"github.com/ssargent/notedb/pkg/logging"
	"github.com/ssargent/notedb/pkg/storage"
)

type ctxKey int

const (
	configKey ctxKey = iota
	loggerKey
	registryKey
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notedb",
	Short: "NoteDB - a store for nostr notes",
	Long: `NoteDB keeps nostr events in a compact binary form and reads their
fields, tags and references without copying them out of the store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		log := logging.New(os.Stderr, level)

		ctx := context.WithValue(cmd.Context(), configKey, cfg)
		ctx = context.WithValue(ctx, loggerKey, log)

		// One registry per run; serve exposes it on /metrics.
		reg := prometheus.NewRegistry()
		ctx = context.WithValue(ctx, registryKey, reg)

		cmd.SetContext(ctx)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.GetDefaultConfigPath(), "Path to the config file")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the store (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
}

// loadConfig reads the config file when it exists, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	if config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, cfg.Validate()
}

func configFrom(cmd *cobra.Command) *config.Config {
	return cmd.Context().Value(configKey).(*config.Config)
}

func loggerFrom(cmd *cobra.Command) *slog.Logger {
	return cmd.Context().Value(loggerKey).(*slog.Logger)
}

func registryFrom(cmd *cobra.Command) *prometheus.Registry {
	return cmd.Context().Value(registryKey).(*prometheus.Registry)
}

// withStore opens the configured store around run.
func withStore(run func(cmd *cobra.Command, args []string, store *storage.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return errors.Wrap(err, "failed to create data dir")
		}
		store, err := storage.Open(storage.Options{
			Dir:         cfg.DataDir,
			Sync:        cfg.Storage.Sync,
			CacheSizeMB: cfg.Storage.CacheSizeMB,
			BufferSize:  cfg.Decode.BufferSize,
			Logger:      loggerFrom(cmd),
			Registerer:  registryFrom(cmd),
		})
		if err != nil {
			return err
		}
		defer store.Close()

		return run(cmd, args, store)
	}
}

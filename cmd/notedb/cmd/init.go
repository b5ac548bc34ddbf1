/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/notedb/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file and create the data directory",
	Long: `Write a NoteDB config file with a freshly generated API key and create
the data directory it points at.

Examples:
  notedb init
  notedb init --config ./notedb.yaml --data-dir ./data --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")
		cfg := configFrom(cmd)
		out := cmd.OutOrStdout()

		if config.ConfigExists(path) && !force {
			fprintf(out, "Config already exists at %s. Use --force to overwrite.\n", path)
			return nil
		}

		cfg, err := config.BootstrapConfig(path, cfg.DataDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return errors.Wrap(err, "failed to create data directory")
		}

		fprintf(out, "Config written to %s\n", path)
		fprintf(out, "Data directory: %s\n", cfg.DataDir)
		fprintf(out, "API key: %s\n", cfg.Security.APIKey)
		fprintf(out, "\nStart the server with:\n  notedb serve --config %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pairplan/internal/config"
	"pairplan/internal/logging"
	"pairplan/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a plan directory",
	Long: `Create the .pairplan directory with a default config and an empty
database under the plan root.

Examples:
  pairplan init
  pairplan init --root /srv/plans/downtown`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.PlanRoot = rootFlag
	if err := cfg.Save(rootFlag); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
	db, err := storage.Open(rootFlag, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Initialized plan at %s\n", db.Path())
	return nil
}

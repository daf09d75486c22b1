package main

import (
	"github.com/spf13/cobra"

	"pairplan/internal/version"
)

var (
	// rootFlag is the plan root directory holding .pairplan/
	rootFlag string
	// formatFlag selects json or human output
	formatFlag string
	// logLevelFlag overrides the configured log level
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "pairplan",
	Short: "pairplan - copper pair allocation and splice mapping",
	Long: `pairplan manages physical-pair allocation for multi-pair copper cables
organized into 25-pair binder groups. Cables carry ordered circuits (named
pair ranges); distribution circuits splice onto feed circuits by logical
range containment, with conflict detection on the derived feed pairs.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("pairplan version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Plan root directory (holds .pairplan/)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "human",
		"Output format (json, human)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")
}

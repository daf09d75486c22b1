package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pairplan/internal/output"
	"pairplan/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if format == output.JSON {
		return printJSON(map[string]string{
			"version":   version.Version,
			"commit":    version.Commit,
			"buildDate": version.BuildDate,
		})
	}
	fmt.Println(version.Full())
	return nil
}

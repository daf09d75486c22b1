package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pairplan/internal/export"
)

var (
	exportOutput   string
	exportCompress bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the plan to a YAML snapshot",
	Long: `Write the full plan (cables, circuits, splices) to a portable YAML
document. Compression is applied with --compress or when the output
path ends in .gz.

Examples:
  pairplan export
  pairplan export --output plan.yaml.gz`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output path (default from config)")
	exportCmd.Flags().BoolVar(&exportCompress, "compress", false, "Gzip the output")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	path := exportOutput
	if path == "" {
		path = e.cfg.Export.DefaultOutput
	}
	compress := exportCompress || e.cfg.Export.Compress

	snapshot, err := e.svc.Snapshot()
	if err != nil {
		return err
	}
	exporter := export.NewExporter(e.logger)
	if err := exporter.WriteSnapshot(snapshot, path, compress); err != nil {
		return err
	}

	fmt.Printf("Exported %d cables, %d circuits, %d splices to %s\n",
		len(snapshot.Cables), len(snapshot.Circuits), len(snapshot.Splices), path)
	return nil
}

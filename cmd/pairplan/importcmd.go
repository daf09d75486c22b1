package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pairplan/internal/export"
	"pairplan/internal/plan"
)

var importPlan bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the plan from a snapshot or declaration",
	Long: `Replace the whole plan with the contents of a YAML snapshot (as
written by export), or, with --plan, a hand-written PLAN.toml
declaration. Either way the allocator re-normalizes what it loads:
positions are reindexed, pair ranges recomputed, and splice links
pointing at missing cables cleared.

Examples:
  pairplan import plan.yaml.gz
  pairplan import PLAN.toml --plan`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importPlan, "plan", false, "Treat the file as a PLAN.toml declaration")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var snapshot *plan.Snapshot
	if importPlan {
		decl, err := export.LoadDeclaration(args[0])
		if err != nil {
			return err
		}
		snapshot, err = decl.ToSnapshot()
		if err != nil {
			return err
		}
	} else {
		exporter := export.NewExporter(e.logger)
		snapshot, err = exporter.ReadSnapshot(args[0])
		if err != nil {
			return err
		}
	}

	if err := e.svc.Restore(snapshot); err != nil {
		return err
	}
	fmt.Printf("Imported %d cables, %d circuits, %d splices\n",
		len(snapshot.Cables), len(snapshot.Circuits), len(snapshot.Splices))
	return nil
}

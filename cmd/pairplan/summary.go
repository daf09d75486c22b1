package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pairplan/internal/binder"
	"pairplan/internal/output"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <cable>",
	Short: "Show a cable's allocation and capacity report",
	Long: `Show every circuit on a cable with its derived pair range, binder
segmentation, splice state, and the assigned-vs-capacity figure.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

var bindersCmd = &cobra.Command{
	Use:   "binders <cable>",
	Short: "Show a cable's circuits broken into binder groups",
	Long: `Break each circuit's pair range into per-binder segments. A range that
crosses a binder boundary appears once per binder it touches.`,
	Args: cobra.ExactArgs(1),
	RunE: runBinders,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(bindersCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cable, err := e.resolveCable(args[0])
	if err != nil {
		return err
	}
	summary, err := e.svc.CableSummary(cable.ID)
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(summary)
	}

	fmt.Printf("%s (%s, %d pairs, %d-pair binders)\n",
		cable.Name, cable.Role, cable.PairCount, cable.BinderSize)

	table := output.NewTable(os.Stdout, "POS", "IDENTIFIER", "PAIRS", "BINDERS", "SPLICED")
	for _, view := range summary.Circuits {
		c := view.Circuit
		spliced := "no"
		if c.IsSpliced {
			spliced = fmt.Sprintf("feed %d-%d", c.FeedPairStart, c.FeedPairEnd)
		}
		table.Row(c.Position, c.Identifier,
			fmt.Sprintf("%d-%d", c.PairStart, c.PairEnd),
			formatSegments(view.Segments), spliced)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	status := "within capacity"
	if !summary.WithinCapacity {
		status = "OVER CAPACITY"
	}
	fmt.Printf("\n%d of %d pairs assigned (%s)\n", summary.TotalAssigned, cable.PairCount, status)
	return nil
}

func runBinders(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cable, err := e.resolveCable(args[0])
	if err != nil {
		return err
	}
	summary, err := e.svc.CableSummary(cable.ID)
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(summary.Circuits)
	}

	table := output.NewTable(os.Stdout, "BINDER", "PAIRS", "IDENTIFIER")
	for _, view := range summary.Circuits {
		for _, seg := range view.Segments {
			table.Row(seg.Binder, fmt.Sprintf("%d-%d", seg.Start, seg.End), view.Circuit.Identifier)
		}
	}
	return table.Flush()
}

// formatSegments renders segments as "1:1-25 2:1-5".
func formatSegments(segments []binder.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, fmt.Sprintf("%d:%d-%d", seg.Binder, seg.Start, seg.End))
	}
	return strings.Join(parts, " ")
}

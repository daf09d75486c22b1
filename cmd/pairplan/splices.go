package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pairplan/internal/output"
	"pairplan/internal/plan"
	"pairplan/internal/service"
)

var (
	spliceAddSource      string
	spliceAddSourcePairs string
	spliceAddDest        string
	spliceAddDestPairs   string
	spliceAddPON         string
	splicesListCable     string
	spliceUncomplete     bool
)

var splicesCmd = &cobra.Command{
	Use:   "splices",
	Short: "Manage the manual splice table",
}

var splicesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a manual splice between two pair ranges",
	Long: `Record a manual splice mapping an equal-length pair range on a source
cable to one on a destination cable. The destination range must not
overlap another manual splice on the same cable.

Example:
  pairplan splices add --source F-100 --source-pairs 1-25 \
    --dest D-50 --dest-pairs 1-25 --pon 101-125`,
	Args: cobra.NoArgs,
	RunE: runSplicesAdd,
}

var splicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manual splice records",
	Args:  cobra.NoArgs,
	RunE:  runSplicesList,
}

var splicesCompleteCmd = &cobra.Command{
	Use:   "complete <splice-id>",
	Short: "Mark a manual splice as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runSplicesComplete,
}

var splicesRmCmd = &cobra.Command{
	Use:   "rm <splice-id>",
	Short: "Delete a manual splice record",
	Args:  cobra.ExactArgs(1),
	RunE:  runSplicesRm,
}

func init() {
	splicesAddCmd.Flags().StringVar(&spliceAddSource, "source", "", "Source cable id or name (required)")
	splicesAddCmd.Flags().StringVar(&spliceAddSourcePairs, "source-pairs", "", "Source pair range, e.g. 1-25 (required)")
	splicesAddCmd.Flags().StringVar(&spliceAddDest, "dest", "", "Destination cable id or name (required)")
	splicesAddCmd.Flags().StringVar(&spliceAddDestPairs, "dest-pairs", "", "Destination pair range, e.g. 26-50 (required)")
	splicesAddCmd.Flags().StringVar(&spliceAddPON, "pon", "", "Optional PON range annotation, e.g. 101-125")
	_ = splicesAddCmd.MarkFlagRequired("source")
	_ = splicesAddCmd.MarkFlagRequired("source-pairs")
	_ = splicesAddCmd.MarkFlagRequired("dest")
	_ = splicesAddCmd.MarkFlagRequired("dest-pairs")

	splicesListCmd.Flags().StringVar(&splicesListCable, "cable", "", "Only splices touching this cable")

	splicesCompleteCmd.Flags().BoolVar(&spliceUncomplete, "undo", false, "Mark as not completed instead")

	splicesCmd.AddCommand(splicesAddCmd)
	splicesCmd.AddCommand(splicesListCmd)
	splicesCmd.AddCommand(splicesCompleteCmd)
	splicesCmd.AddCommand(splicesRmCmd)
	rootCmd.AddCommand(splicesCmd)
}

// parsePairRange parses "start-end" flag values.
func parsePairRange(flag, value string) (int, int, error) {
	var start, end int
	if _, err := fmt.Sscanf(value, "%d-%d", &start, &end); err != nil {
		return 0, 0, fmt.Errorf("--%s: expected start-end, got %q", flag, value)
	}
	return start, end, nil
}

func runSplicesAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	source, err := e.resolveCable(spliceAddSource)
	if err != nil {
		return err
	}
	dest, err := e.resolveCable(spliceAddDest)
	if err != nil {
		return err
	}

	srcStart, srcEnd, err := parsePairRange("source-pairs", spliceAddSourcePairs)
	if err != nil {
		return err
	}
	destStart, destEnd, err := parsePairRange("dest-pairs", spliceAddDestPairs)
	if err != nil {
		return err
	}

	in := service.SpliceInput{
		SourceCableID:   source.ID,
		SourcePairStart: srcStart,
		SourcePairEnd:   srcEnd,
		DestCableID:     dest.ID,
		DestPairStart:   destStart,
		DestPairEnd:     destEnd,
	}
	if spliceAddPON != "" {
		in.PONStart, in.PONEnd, err = parsePairRange("pon", spliceAddPON)
		if err != nil {
			return err
		}
	}

	record, err := e.svc.AddSplice(in)
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(record)
	}
	fmt.Printf("Recorded splice %s: %s %d-%d -> %s %d-%d\n",
		record.ID, source.Name, srcStart, srcEnd, dest.Name, destStart, destEnd)
	return nil
}

func runSplicesList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var records []*plan.Splice
	if splicesListCable != "" {
		cable, err := e.resolveCable(splicesListCable)
		if err != nil {
			return err
		}
		records, err = e.svc.SplicesByCable(cable.ID)
		if err != nil {
			return err
		}
	} else {
		records, err = e.svc.Splices()
		if err != nil {
			return err
		}
	}

	if e.format == output.JSON {
		return printJSON(records)
	}

	names := map[string]string{}
	cableName := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		name := id
		if c, err := e.svc.Cable(id); err == nil {
			name = c.Name
		}
		names[id] = name
		return name
	}

	table := output.NewTable(os.Stdout, "ID", "SOURCE", "SRC PAIRS", "DEST", "DST PAIRS", "PON", "DONE")
	for _, sp := range records {
		pon := "-"
		if sp.PONStart > 0 {
			pon = fmt.Sprintf("%d-%d", sp.PONStart, sp.PONEnd)
		}
		done := "no"
		if sp.Completed {
			done = "yes"
		}
		table.Row(sp.ID,
			cableName(sp.SourceCableID), fmt.Sprintf("%d-%d", sp.SourcePairStart, sp.SourcePairEnd),
			cableName(sp.DestCableID), fmt.Sprintf("%d-%d", sp.DestPairStart, sp.DestPairEnd),
			pon, done)
	}
	return table.Flush()
}

func runSplicesComplete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.svc.CompleteSplice(args[0], !spliceUncomplete); err != nil {
		return err
	}
	state := "completed"
	if spliceUncomplete {
		state = "not completed"
	}
	fmt.Printf("Splice %s marked %s\n", args[0], state)
	return nil
}

func runSplicesRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.svc.DeleteSplice(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted splice %s\n", args[0])
	return nil
}

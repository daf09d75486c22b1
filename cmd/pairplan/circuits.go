package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pairplan/internal/allocate"
	"pairplan/internal/output"
)

var (
	circuitEditIdentifier string
	circuitMoveUp         bool
	circuitMoveDown       bool
)

var circuitsCmd = &cobra.Command{
	Use:   "circuits",
	Short: "Manage circuits within a cable",
}

var circuitsAddCmd = &cobra.Command{
	Use:   "add <cable> <identifier>",
	Short: "Append a circuit to a cable's order",
	Long: `Append a circuit at the end of the cable's order. The identifier is
"prefix,start-end"; the legacy whitespace form ("pon 1 25") is accepted
and normalized. Pair ranges are recomputed for the whole cable.

Examples:
  pairplan circuits add F-100 pon,1-25
  pairplan circuits add F-100 "BR 021 365 372"`,
	Args: cobra.ExactArgs(2),
	RunE: runCircuitsAdd,
}

var circuitsListCmd = &cobra.Command{
	Use:   "list <cable>",
	Short: "List a cable's circuits in position order",
	Args:  cobra.ExactArgs(1),
	RunE:  runCircuitsList,
}

var circuitsEditCmd = &cobra.Command{
	Use:   "edit <circuit-id>",
	Short: "Replace a circuit's identifier",
	Long: `Replace a circuit's identifier and recompute the cable's pair ranges.
If the parsed identifier changed and the circuit was spliced, the splice
link is cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: runCircuitsEdit,
}

var circuitsRmCmd = &cobra.Command{
	Use:   "rm <circuit-id>",
	Short: "Remove a circuit",
	Args:  cobra.ExactArgs(1),
	RunE:  runCircuitsRm,
}

var circuitsMoveCmd = &cobra.Command{
	Use:   "move <circuit-id>",
	Short: "Swap a circuit with its neighbor",
	Long: `Move a circuit one step up or down in its cable's order. Moves past
either end are no-ops.`,
	Args: cobra.ExactArgs(1),
	RunE: runCircuitsMove,
}

func init() {
	circuitsEditCmd.Flags().StringVar(&circuitEditIdentifier, "identifier", "", "New circuit identifier (required)")
	_ = circuitsEditCmd.MarkFlagRequired("identifier")

	circuitsMoveCmd.Flags().BoolVar(&circuitMoveUp, "up", false, "Move one position earlier")
	circuitsMoveCmd.Flags().BoolVar(&circuitMoveDown, "down", false, "Move one position later")

	circuitsCmd.AddCommand(circuitsAddCmd)
	circuitsCmd.AddCommand(circuitsListCmd)
	circuitsCmd.AddCommand(circuitsEditCmd)
	circuitsCmd.AddCommand(circuitsRmCmd)
	circuitsCmd.AddCommand(circuitsMoveCmd)
	rootCmd.AddCommand(circuitsCmd)
}

func runCircuitsAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cable, err := e.resolveCable(args[0])
	if err != nil {
		return err
	}
	circuit, err := e.svc.AddCircuit(cable.ID, args[1])
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(circuit)
	}
	fmt.Printf("Added circuit %s at position %d (pairs %d-%d)\n",
		circuit.Identifier, circuit.Position, circuit.PairStart, circuit.PairEnd)
	return nil
}

func runCircuitsList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cable, err := e.resolveCable(args[0])
	if err != nil {
		return err
	}
	circuits, err := e.svc.Circuits(cable.ID)
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(circuits)
	}

	table := output.NewTable(os.Stdout, "POS", "ID", "IDENTIFIER", "PAIRS", "SPLICED", "FEED PAIRS")
	for _, c := range circuits {
		spliced := "no"
		feed := "-"
		if c.IsSpliced {
			spliced = "yes"
			feed = fmt.Sprintf("%d-%d", c.FeedPairStart, c.FeedPairEnd)
		}
		table.Row(c.Position, c.ID, c.Identifier,
			fmt.Sprintf("%d-%d", c.PairStart, c.PairEnd), spliced, feed)
	}
	return table.Flush()
}

func runCircuitsEdit(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	circuit, err := e.svc.EditCircuit(args[0], circuitEditIdentifier)
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(circuit)
	}
	fmt.Printf("Circuit %s is now %s (pairs %d-%d)\n",
		circuit.ID, circuit.Identifier, circuit.PairStart, circuit.PairEnd)
	return nil
}

func runCircuitsRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.svc.RemoveCircuit(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed circuit %s\n", args[0])
	return nil
}

func runCircuitsMove(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if circuitMoveUp == circuitMoveDown {
		return fmt.Errorf("exactly one of --up or --down is required")
	}
	dir := allocate.Down
	if circuitMoveUp {
		dir = allocate.Up
	}
	if err := e.svc.MoveCircuit(args[0], dir); err != nil {
		return err
	}
	fmt.Printf("Moved circuit %s\n", args[0])
	return nil
}

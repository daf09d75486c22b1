package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pairplan/internal/output"
)

var spliceCmd = &cobra.Command{
	Use:   "splice",
	Short: "Toggle and inspect circuit splice links",
}

var spliceToggleCmd = &cobra.Command{
	Use:   "toggle <circuit-id>",
	Short: "Flip a distribution circuit's splice state",
	Long: `Toggle the splice link on a distribution circuit.

Turning the splice ON searches feed cables in creation order for the
first feed circuit whose logical range contains this circuit's, derives
the physical feed pair range by offset, and checks it against pairs
already claimed on that feed cable. Turning it OFF clears the link.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpliceToggle,
}

var spliceStatusCmd = &cobra.Command{
	Use:   "status <cable>",
	Short: "Show splice state for every circuit on a cable",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpliceStatus,
}

func init() {
	spliceCmd.AddCommand(spliceToggleCmd)
	spliceCmd.AddCommand(spliceStatusCmd)
	rootCmd.AddCommand(spliceCmd)
}

func runSpliceToggle(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	circuit, err := e.svc.ToggleSplice(args[0])
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(circuit)
	}
	if circuit.IsSpliced {
		feed, err := e.svc.Cable(circuit.FeedCableID)
		feedName := circuit.FeedCableID
		if err == nil {
			feedName = feed.Name
		}
		fmt.Printf("Spliced %s onto %s pairs %d-%d\n",
			circuit.Identifier, feedName, circuit.FeedPairStart, circuit.FeedPairEnd)
	} else {
		fmt.Printf("Unspliced %s\n", circuit.Identifier)
	}
	return nil
}

func runSpliceStatus(cmd *cobra.Command, args []string) error {
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

	feedNames := map[string]string{}
	table := output.NewTable(os.Stdout, "IDENTIFIER", "SPLICED", "FEED CABLE", "FEED PAIRS")
	for _, c := range circuits {
		if !c.IsSpliced {
			table.Row(c.Identifier, "no", "-", "-")
			continue
		}
		name, ok := feedNames[c.FeedCableID]
		if !ok {
			name = c.FeedCableID
			if feed, err := e.svc.Cable(c.FeedCableID); err == nil {
				name = feed.Name
			}
			feedNames[c.FeedCableID] = name
		}
		table.Row(c.Identifier, "yes", name,
			fmt.Sprintf("%d-%d", c.FeedPairStart, c.FeedPairEnd))
	}
	return table.Flush()
}

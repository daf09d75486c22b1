package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pairplan/internal/output"
	"pairplan/internal/plan"
)

var (
	cableAddName  string
	cableAddPairs int
	cableAddRole  string
	cableNewName  string
)

var cablesCmd = &cobra.Command{
	Use:   "cables",
	Short: "Manage cables",
}

var cablesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a cable",
	Long: `Create a feed or distribution cable.

Examples:
  pairplan cables add --name F-100 --pairs 100 --role feed
  pairplan cables add --name D-50 --pairs 50 --role distribution`,
	Args: cobra.NoArgs,
	RunE: runCablesAdd,
}

var cablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cables",
	Args:  cobra.NoArgs,
	RunE:  runCablesList,
}

var cablesRenameCmd = &cobra.Command{
	Use:   "rename <cable>",
	Short: "Rename a cable",
	Args:  cobra.ExactArgs(1),
	RunE:  runCablesRename,
}

var cablesRmCmd = &cobra.Command{
	Use:   "rm <cable>",
	Short: "Delete a cable and everything referencing it",
	Long: `Delete a cable. Its circuits are removed, manual splices touching it
are dropped, and distribution circuits spliced onto it are unspliced.`,
	Args: cobra.ExactArgs(1),
	RunE: runCablesRm,
}

func init() {
	cablesAddCmd.Flags().StringVar(&cableAddName, "name", "", "Cable display name (required)")
	cablesAddCmd.Flags().IntVar(&cableAddPairs, "pairs", 0, "Total pair capacity (required)")
	cablesAddCmd.Flags().StringVar(&cableAddRole, "role", "", "Cable role: feed or distribution (required)")
	_ = cablesAddCmd.MarkFlagRequired("name")
	_ = cablesAddCmd.MarkFlagRequired("pairs")
	_ = cablesAddCmd.MarkFlagRequired("role")

	cablesRenameCmd.Flags().StringVar(&cableNewName, "name", "", "New display name (required)")
	_ = cablesRenameCmd.MarkFlagRequired("name")

	cablesCmd.AddCommand(cablesAddCmd)
	cablesCmd.AddCommand(cablesListCmd)
	cablesCmd.AddCommand(cablesRenameCmd)
	cablesCmd.AddCommand(cablesRmCmd)
	rootCmd.AddCommand(cablesCmd)
}

func runCablesAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cable, err := e.svc.CreateCable(cableAddName, cableAddPairs, plan.Role(cableAddRole))
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(cable)
	}
	fmt.Printf("Created %s cable %s (%s, %d pairs)\n", cable.Role, cable.Name, cable.ID, cable.PairCount)
	return nil
}

func runCablesList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cables, err := e.svc.Cables()
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(cables)
	}

	table := output.NewTable(os.Stdout, "ID", "NAME", "ROLE", "PAIRS", "BINDER")
	for _, c := range cables {
		table.Row(c.ID, c.Name, c.Role, c.PairCount, c.BinderSize)
	}
	return table.Flush()
}

func runCablesRename(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cable, err := e.resolveCable(args[0])
	if err != nil {
		return err
	}
	renamed, err := e.svc.RenameCable(cable.ID, cableNewName)
	if err != nil {
		return err
	}

	if e.format == output.JSON {
		return printJSON(renamed)
	}
	fmt.Printf("Renamed cable %s to %s\n", renamed.ID, renamed.Name)
	return nil
}

func runCablesRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cable, err := e.resolveCable(args[0])
	if err != nil {
		return err
	}
	if err := e.svc.DeleteCable(cable.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted cable %s\n", cable.Name)
	return nil
}

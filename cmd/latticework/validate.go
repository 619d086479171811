package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a design for consistency without meshing it",
	Long:  `Evaluates the design and reports dangling references, undefined universes, cycles and extent problems.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		g, result := newApp().Build(source)
		out := cmd.OutOrStdout()
		printDiagnostics(out, result)
		if g == nil {
			return fmt.Errorf("%s: validation failed", args[0])
		}
		fmt.Fprintf(out, "%s is valid: %d nodes, %d lattices, %d fills\n",
			args[0], g.NodeCount(), len(g.Lattices()), len(g.Fills()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

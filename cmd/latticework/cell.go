package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chazu/latticework"
)

var cellCmd = &cobra.Command{
	Use:   "cell <file> <lattice> <x> <y> <z>",
	Short: "Print the translation and fill node of one lattice cell",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		var idx [3]int
		for i, s := range args[2:] {
			v, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("cell index %q: %w", s, err)
			}
			idx[i] = v
		}
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		g, result := newApp().Build(source)
		if g == nil {
			printDiagnostics(cmd.ErrOrStderr(), result)
			return fmt.Errorf("%s: evaluation failed", args[0])
		}

		info, err := latticework.Cell(g, args[1], idx[0], idx[1], idx[2])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		fmt.Fprintf(out, "%s[%d,%d,%d]\n", info.Lattice, info.X, info.Y, info.Z)
		fmt.Fprintf(out, "  translation %s\n", info.Transform.Translation)
		fmt.Fprintf(out, "  fill        %s\n", info.Node)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cellCmd)
	cellCmd.Flags().Bool("json", false, "Print the cell as JSON")
}

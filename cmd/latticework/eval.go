package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chazu/latticework"
)

var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Evaluate a design and mesh every placed primitive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")

		result := newApp().Evaluate(source)
		out := cmd.OutOrStdout()
		if jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		} else {
			printSummary(out, result)
		}
		if !result.OK() {
			return fmt.Errorf("%s: %d error(s)", args[0], len(result.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("json", false, "Print the meshes and diagnostics as JSON")
}

func printSummary(w io.Writer, result latticework.EvalResult) {
	printDiagnostics(w, result)
	var tris int
	for _, m := range result.Meshes {
		n := len(m.Indices) / 3
		tris += n
		fmt.Fprintf(w, "%-24s %-10s %8d triangles\n", m.Name, m.Material, n)
	}
	fmt.Fprintf(w, "%d meshes, %d triangles\n", len(result.Meshes), tris)
}

func printDiagnostics(w io.Writer, result latticework.EvalResult) {
	for _, e := range result.Errors {
		fmt.Fprintf(w, "error: %s\n", formatDiagnostic(e))
	}
	for _, d := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", formatDiagnostic(d))
	}
}

func formatDiagnostic(d latticework.Diagnostic) string {
	switch {
	case d.Line > 0:
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	case d.Node != "":
		return fmt.Sprintf("%s: %s", d.Node, d.Message)
	}
	return d.Message
}

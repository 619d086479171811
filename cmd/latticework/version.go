package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/latticework"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of latticework",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "latticework version %s\n", latticework.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/latticework"
	"github.com/chazu/latticework/internal/config"
	"github.com/chazu/latticework/internal/logging"
)

// cfg is loaded before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "latticework",
	Short:         "Evaluate lattice geometry designs",
	Long:          `latticework evaluates universes, fills and lattices written in a small Lisp and expands them into placed triangle meshes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		level, err := logging.ParseLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(level))
		cfg = loaded
		slog.Debug("configuration loaded", "path", path, "mesh_cells", cfg.MeshCells, "max_depth", cfg.MaxDepth)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

// readSource reads a design file.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read design: %w", err)
	}
	return string(data), nil
}

func newApp() *latticework.App {
	return latticework.NewAppWithConfig(cfg)
}

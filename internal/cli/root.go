// Package cli provides the command-line interface for metasql.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/metastack-labs/metasql/internal/cli/commands"
	"github.com/metastack-labs/metasql/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "metasql",
		Short: "metasql - SQL metadata and diagnostics analyzer",
		Long: `metasql analyzes parsed SQL statements and produces warehouse metadata
(entities, attributes, relationships, column-level lineage) together with
diagnostics for defective and non-deterministic SQL.

Statements are supplied as JSON-encoded syntax trees, one file per
statement; parsing SQL text is out of scope and handled upstream.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			ctx := commands.WithEnv(cmd.Context(), &commands.Env{
				Config: cfg,
				Logger: logger,
			})
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./metasql.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json")
	rootCmd.PersistentFlags().Int("concurrency", 0, "max parallel statement analyses (0 = one per CPU)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		commands.NewAnalyzeCommand(),
		commands.NewExtractCommand(),
		commands.NewLineageCommand(),
		commands.NewChecksCommand(),
		commands.NewVersionCommand(Version, BuildDate, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

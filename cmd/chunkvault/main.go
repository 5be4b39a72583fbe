// Command chunkvault is the CLI front end for the chunked file storage
// engine: upload, download, list, delete, watch, export, import and serve.
//
// Logging:
//   - A single slog.Logger is created here, wrapped in a logging.Filter for
//     per-component level control, and passed to every subcommand and the
//     Engine via dependency injection.
//   - No global slog configuration (no slog.SetDefault).
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"chunkvault/cmd/chunkvault/cli"
	"chunkvault/internal/logging"
)

var version = "dev"

func main() {
	// The base handler allows all levels; the filter decides per component.
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	filter := logging.NewFilter(base, slog.LevelInfo)
	logger := slog.New(filter)

	root := &cobra.Command{
		Use:   "chunkvault",
		Short: "Content-addressable chunked file storage",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("log-debug"); debug {
				filter.SetDefaultLevel(slog.LevelDebug)
			}
			components, _ := cmd.Flags().GetStringArray("debug-component")
			for _, c := range components {
				filter.SetLevel(c, slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().Bool("log-debug", false, "log at debug level regardless of component")
	root.PersistentFlags().StringArray("debug-component", nil, "component to log at debug level (repeatable), e.g. engine, gateway, sweeper")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	})

	cli.Register(root, logger)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

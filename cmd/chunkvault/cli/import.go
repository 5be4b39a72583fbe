package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
)

func newImportCmd(logger *slog.Logger) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore files from a msgpack archive produced by export",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("--input is required")
			}

			packed, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}
			var entries []archiveEntry
			if err := msgpack.Unmarshal(packed, &entries); err != nil {
				return fmt.Errorf("decode archive: %w", err)
			}

			eng, err := openEngine(logger)
			if err != nil {
				return err
			}

			ctx := context.Background()
			for _, entry := range entries {
				if _, err := eng.StoreFile(ctx, entry.Meta.Name, entry.Data); err != nil {
					return fmt.Errorf("store %s: %w", entry.Meta.Name, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d files from %s\n", len(entries), input)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "path to the msgpack archive to restore from")
	return cmd
}

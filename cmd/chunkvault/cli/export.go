package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"chunkvault/internal/filemeta"
)

// archiveEntry is one file's metadata plus its decoded bytes, the unit the
// export/import commands move in and out of a single msgpack archive file.
type archiveEntry struct {
	Meta filemeta.FileMetadata `msgpack:"meta"`
	Data []byte                `msgpack:"data"`
}

func newExportCmd(logger *slog.Logger) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Archive the whole catalog (metadata + file bytes) to a msgpack file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}

			eng, err := openEngine(logger)
			if err != nil {
				return err
			}

			ctx := context.Background()
			metas, err := eng.ListFiles(ctx)
			if err != nil {
				return fmt.Errorf("list files: %w", err)
			}

			entries := make([]archiveEntry, 0, len(metas))
			for _, meta := range metas {
				data, err := eng.GetFile(ctx, meta.ID)
				if err != nil {
					return fmt.Errorf("read %s (%s): %w", meta.ID, meta.Name, err)
				}
				entries = append(entries, archiveEntry{Meta: meta, Data: data})
			}

			packed, err := msgpack.Marshal(entries)
			if err != nil {
				return fmt.Errorf("encode archive: %w", err)
			}
			if err := os.WriteFile(output, packed, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d files to %s\n", len(entries), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "path to write the msgpack archive to")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"chunkvault/internal/chunkid"
)

func newDownloadCmd(logger *slog.Logger) *cobra.Command {
	var fileID, fileName, output string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Retrieve a stored file by id or name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (fileID == "") == (fileName == "") {
				return fmt.Errorf("exactly one of --file-id or --file-name is required")
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}

			eng, err := openEngine(logger)
			if err != nil {
				return err
			}

			ctx := context.Background()
			id, err := resolveID(ctx, eng, fileID, fileName)
			if err != nil {
				return err
			}

			data, err := eng.GetFile(ctx, id)
			if err != nil {
				return fmt.Errorf("download %s: %w", id, err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&fileID, "file-id", "", "file id to download")
	cmd.Flags().StringVar(&fileName, "file-name", "", "file name to download (resolved through the name index)")
	cmd.Flags().StringVar(&output, "output", "", "path to write the downloaded bytes to")
	return cmd
}

// resolveID resolves either an explicit --file-id or a --file-name lookup
// into a concrete chunkid.FileID.
func resolveID(ctx context.Context, eng interface {
	ResolveName(ctx context.Context, name string) (chunkid.FileID, error)
}, fileID, fileName string) (chunkid.FileID, error) {
	if fileID != "" {
		return chunkid.ParseFileID(fileID)
	}
	return eng.ResolveName(ctx, fileName)
}

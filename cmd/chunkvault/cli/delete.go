package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newDeleteCmd(logger *slog.Logger) *cobra.Command {
	var fileID, fileName string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored file by id or name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (fileID == "") == (fileName == "") {
				return fmt.Errorf("exactly one of --file-id or --file-name is required")
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
			if err := eng.DeleteFile(ctx, id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&fileID, "file-id", "", "file id to delete")
	cmd.Flags().StringVar(&fileName, "file-name", "", "file name to delete (resolved through the name index)")
	return cmd
}

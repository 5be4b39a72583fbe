package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newVerifyCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every stored file's metadata against its chunks",
		Long:  "Check that every chunk referenced by each metadata record exists and that the chunk sizes sum to the recorded file size. Checksums are not recomputed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(logger)
			if err != nil {
				return err
			}

			ctx := context.Background()
			metas, err := eng.ListFiles(ctx)
			if err != nil {
				return fmt.Errorf("list files: %w", err)
			}

			bad := 0
			for _, meta := range metas {
				if err := eng.ValidateFile(ctx, meta.ID); err != nil {
					bad++
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tINVALID: %v\n", meta.ID, meta.Name, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tok\n", meta.ID, meta.Name)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d files failed validation", bad, len(metas))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "all %d files valid\n", len(metas))
			return nil
		},
	}
	return cmd
}

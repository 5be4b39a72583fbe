package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

func newUploadCmd(logger *slog.Logger) *cobra.Command {
	var glob string

	cmd := &cobra.Command{
		Use:   "upload [file...]",
		Short: "Store one or more files",
		Long:  "Store one or more files given directly as arguments, or matched by --glob (supports ** recursive patterns).",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if glob != "" {
				matches, err := doublestar.FilepathGlob(glob)
				if err != nil {
					return fmt.Errorf("evaluate --glob %q: %w", glob, err)
				}
				paths = append(paths, matches...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files given: pass file paths or --glob")
			}

			eng, err := openEngine(logger)
			if err != nil {
				return err
			}

			ctx := context.Background()
			for _, path := range paths {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				meta, err := eng.StoreFile(ctx, filepath.Base(path), data)
				if err != nil {
					return fmt.Errorf("store %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", meta.ID, meta.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&glob, "glob", "", `doublestar glob pattern to select files, e.g. "**/*.png"`)
	return cmd
}

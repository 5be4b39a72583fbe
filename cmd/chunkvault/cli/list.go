package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/theory/jsonpath"
)

func newListCmd(logger *slog.Logger) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored files",
		Long:  `List stored files, optionally narrowed with a JSONPath filter over the listing, e.g. --filter "$[?(@.size > 1048576)]".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(logger)
			if err != nil {
				return err
			}

			metas, err := eng.ListFiles(context.Background())
			if err != nil {
				return fmt.Errorf("list files: %w", err)
			}

			raw, err := json.Marshal(metas)
			if err != nil {
				return fmt.Errorf("marshal listing: %w", err)
			}
			var doc any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("decode listing: %w", err)
			}

			result := doc
			if filter != "" {
				path, err := jsonpath.Parse(filter)
				if err != nil {
					return fmt.Errorf("parse --filter: %w", err)
				}
				result = path.Select(doc)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "JSONPath expression to filter the listing")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"chunkvault/internal/engine"
	"chunkvault/internal/retry"
)

func newWatchCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and auto-upload files dropped into it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			eng, err := openEngine(logger)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}

			logger.Info("watching directory for new files", "dir", dir)
			ctx := context.Background()
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
						continue
					}
					uploadWatchedFile(ctx, eng, logger, event.Name)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Error("watcher error", "error", err)
				}
			}
		},
	}
	return cmd
}

// uploadWatchedFile stores the file at path, logging and swallowing errors
// so one bad event doesn't stop the watch loop. The store is retried with
// backoff: a create event often fires while the file is still being
// written, so the first read can race the writer.
func uploadWatchedFile(ctx context.Context, eng *engine.Engine, logger *slog.Logger, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	cfg := retry.Config{MaxRetries: 3, InitialDelay: 250 * time.Millisecond, Logger: logger}
	err = retry.Do(ctx, cfg, func(ctx context.Context) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		meta, err := eng.StoreFile(ctx, filepath.Base(path), data)
		if err != nil {
			return fmt.Errorf("store %s: %w", path, err)
		}
		logger.Info("auto-uploaded watched file", "path", path, "id", meta.ID)
		return nil
	})
	if err != nil {
		logger.Warn("upload watched file", "path", path, "error", err)
	}
}

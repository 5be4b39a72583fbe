// Package cli implements the chunkvault command-line subcommands: upload,
// download, list, delete, verify, watch, export, import and serve. Each subcommand
// opens its own short-lived Engine against the resolved home directory
// rather than sharing a long-lived connection, mirroring a local, direct-
// storage CLI rather than an RPC client.
package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"chunkvault/internal/engine"
	"chunkvault/internal/home"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	homePath   string
	chunkSize  int
	compress   bool
	cacheSize  int
	encryptHex string
}

var flags rootFlags

// Register attaches every chunkvault subcommand and its flags to root.
func Register(root *cobra.Command, logger *slog.Logger) {
	root.PersistentFlags().StringVar(&flags.homePath, "home", "", "storage base directory (default: platform config dir)")
	root.PersistentFlags().IntVar(&flags.chunkSize, "chunk-size", 0, "chunk size in bytes (default: engine default)")
	root.PersistentFlags().BoolVar(&flags.compress, "compress", false, "zstd-compress chunk bytes at rest")
	root.PersistentFlags().IntVar(&flags.cacheSize, "cache-size", 64, "number of decoded files to keep in the LRU cache (0 disables it)")
	root.PersistentFlags().StringVar(&flags.encryptHex, "encrypt-key", "", "32-byte AES-256-GCM key, hex-encoded; empty disables encryption")

	root.AddCommand(
		newUploadCmd(logger),
		newDownloadCmd(logger),
		newListCmd(logger),
		newDeleteCmd(logger),
		newVerifyCmd(logger),
		newWatchCmd(logger),
		newExportCmd(logger),
		newImportCmd(logger),
		newServeCmd(logger),
		newHashPasswordCmd(),
	)
}

// openEngine resolves the home directory and constructs an Engine using the
// shared persistent flags.
func openEngine(logger *slog.Logger) (*engine.Engine, error) {
	hd, err := resolveHome()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	if err := hd.EnsureExists(); err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithCompression(flags.compress),
	}
	if flags.cacheSize > 0 {
		opts = append(opts, engine.WithCache(flags.cacheSize))
	}
	if flags.chunkSize > 0 {
		opts = append(opts, engine.WithChunkSize(flags.chunkSize))
	}
	if flags.encryptHex != "" {
		key, err := decodeKeyHex(flags.encryptHex)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithEncryption(key))
	}

	return engine.New(hd.Root(), opts...)
}

func resolveHome() (home.Dir, error) {
	if flags.homePath != "" {
		return home.New(flags.homePath), nil
	}
	return home.Default()
}

func decodeKeyHex(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse --encrypt-key: %w", err)
	}
	return key, nil
}

// Package home resolves the default chunkvault storage location.
//
// chunkvault itself never reads the environment (the base path is always an
// explicit constructor argument to the engine); this package exists only for
// the CLI/gateway binary to pick a sensible default when the user does not
// pass --home.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir represents a resolved chunkvault base directory.
type Dir struct {
	root string
}

// New creates a Dir with an explicit root path.
func New(root string) Dir {
	return Dir{root: root}
}

// Default returns a Dir using the platform-appropriate default location:
//   - Linux:   $XDG_CONFIG_HOME/chunkvault, or ~/.config/chunkvault
//   - macOS:   ~/Library/Application Support/chunkvault
//   - Windows: %APPDATA%/chunkvault
func Default() (Dir, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Dir{}, fmt.Errorf("determine config directory: %w", err)
	}
	return Dir{root: filepath.Join(base, "chunkvault")}, nil
}

// Root returns the base storage path.
func (d Dir) Root() string {
	return d.root
}

// EnsureExists creates the base directory (and parents) if it doesn't exist.
func (d Dir) EnsureExists() error {
	if err := os.MkdirAll(d.root, 0o750); err != nil {
		return fmt.Errorf("create base directory %s: %w", d.root, err)
	}
	return nil
}

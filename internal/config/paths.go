// Package config manages worksync configuration and filesystem paths.
//
// Settings are layered with viper: built-in defaults, then the config file
// (~/.worksync/config.yaml or --config), then WORKSYNC_* environment
// variables, then command-line flags. The data root can be moved with
// WORKSYNC_ROOT.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem paths used by worksync outside a workspace.
type Paths struct {
	// Root is the base directory for worksync data (default: ~/.worksync)
	Root string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for worksync.
// Paths can be overridden with environment variables:
// - WORKSYNC_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("WORKSYNC_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".worksync")
	}

	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}, nil
}

// EnsureDirectories creates the root directory if it doesn't exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}

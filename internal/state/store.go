package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/danieljhkim/worksync/internal/clock"
	"github.com/danieljhkim/worksync/internal/fsops"
)

var (
	// ErrConfigCorrupt indicates the persisted workspace config could not be
	// read or decoded. Load treats it as absent and only logs it.
	ErrConfigCorrupt = errors.New("workspace config is corrupt")

	// ErrFolderTaken indicates a folder is already bound to another project.
	ErrFolderTaken = errors.New("folder is already bound to another project")
)

// ConfigStore persists the WorkspaceConfig of one workspace.
// The store holds the current config in memory; callers read it with
// Current and mutate it only through the store's methods.
type ConfigStore interface {
	// Load reads the persisted config. A missing or corrupt config yields
	// a default one and no error.
	Load() (*WorkspaceConfig, error)

	// Save persists cfg and makes it current.
	Save(cfg *WorkspaceConfig) error

	// Current returns the in-memory config, loading it on first use.
	Current() (*WorkspaceConfig, error)

	// RecordProjectMapping binds projectID to folder and checkpoints the
	// config when the binding changed.
	RecordProjectMapping(projectID, folder string) error

	// TouchLastSync sets LastSyncAt to now in memory. The caller saves.
	TouchLastSync() error
}

// FileConfigStore implements ConfigStore as a JSON file in a LocalTree.
type FileConfigStore struct {
	tree    fsops.LocalTree
	clock   clock.Clock
	logger  *slog.Logger
	current *WorkspaceConfig
}

// NewFileConfigStore creates a store for the workspace rooted at tree.
func NewFileConfigStore(tree fsops.LocalTree, clk clock.Clock, logger *slog.Logger) *FileConfigStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileConfigStore{
		tree:   tree,
		clock:  clk,
		logger: logger,
	}
}

// Load reads the persisted config.
func (s *FileConfigStore) Load() (*WorkspaceConfig, error) {
	data, ok, err := s.tree.ReadText(MetaDir, ConfigFileName)
	if err != nil {
		s.logger.Warn("ignoring unreadable workspace config",
			"error", fmt.Errorf("%w: %w", ErrConfigCorrupt, err))
		s.current = NewWorkspaceConfig()
		return s.current, nil
	}
	if !ok {
		s.current = NewWorkspaceConfig()
		return s.current, nil
	}

	var cfg WorkspaceConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		s.logger.Warn("ignoring corrupt workspace config",
			"path", path.Join(MetaDir, ConfigFileName),
			"error", fmt.Errorf("%w: %w", ErrConfigCorrupt, err))
		s.current = NewWorkspaceConfig()
		return s.current, nil
	}
	cfg.normalize()

	s.current = &cfg
	return s.current, nil
}

// Save persists cfg atomically.
func (s *FileConfigStore) Save(cfg *WorkspaceConfig) error {
	cfg.normalize()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace config: %w", err)
	}

	if err := s.tree.WriteText(MetaDir, ConfigFileName, string(data)+"\n"); err != nil {
		return fmt.Errorf("failed to write workspace config: %w", err)
	}

	s.current = cfg
	return nil
}

// Current returns the in-memory config.
func (s *FileConfigStore) Current() (*WorkspaceConfig, error) {
	if s.current == nil {
		return s.Load()
	}
	return s.current, nil
}

// RecordProjectMapping binds projectID to folder.
func (s *FileConfigStore) RecordProjectMapping(projectID, folder string) error {
	cfg, err := s.Current()
	if err != nil {
		return err
	}

	if existing, ok := cfg.ProjectMap[projectID]; ok && existing == folder {
		return nil
	}
	for id, f := range cfg.ProjectMap {
		if id != projectID && strings.EqualFold(f, folder) {
			return fmt.Errorf("%w: %q is bound to project %s", ErrFolderTaken, folder, id)
		}
	}

	cfg.ProjectMap[projectID] = folder
	if err := s.Save(cfg); err != nil {
		return fmt.Errorf("failed to checkpoint project mapping: %w", err)
	}
	return nil
}

// TouchLastSync sets LastSyncAt to the current time.
func (s *FileConfigStore) TouchLastSync() error {
	cfg, err := s.Current()
	if err != nil {
		return err
	}
	now := s.clock.Now()
	cfg.LastSyncAt = &now
	return nil
}

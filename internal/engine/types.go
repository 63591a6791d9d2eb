package engine

import (
	"github.com/danieljhkim/worksync/internal/planner"
	"github.com/danieljhkim/worksync/internal/sync"
)

// RunRequest contains parameters for one sync run.
type RunRequest struct {
	// Mode selects download or bidirectional sync
	Mode sync.Mode

	// Strategy overrides the workspace's conflict strategy (bidirectional only)
	Strategy planner.ConflictStrategy

	// DryRun computes the outcome without changing either side
	DryRun bool

	// Exact makes a dry run compare remote content instead of estimating
	// from folder existence
	Exact bool
}

// SettingsUpdate changes workspace settings. Nil fields are left as is.
type SettingsUpdate struct {
	SyncChats          *bool
	ConflictResolution *planner.ConflictStrategy
}

package sync

import (
	"time"

	"github.com/danieljhkim/worksync/internal/planner"
)

// Mode selects the kind of sync pass.
type Mode string

const (
	// ModeDownload pulls remote projects into the workspace; remote wins.
	ModeDownload Mode = "download"

	// ModeBidirectional reconciles both directions using a conflict strategy.
	ModeBidirectional Mode = "bidirectional"
)

// DownloadRequest contains parameters for a one-directional pull.
type DownloadRequest struct {
	// OrgID is the remote organization to sync
	OrgID string

	// DryRun computes the outcome without writing anything
	DryRun bool

	// Exact makes a dry run compare remote content instead of estimating
	// from folder existence
	Exact bool

	// Progress is invoked after the project list is fetched and after each project
	Progress ProgressFunc
}

// ReconcileRequest contains parameters for a bidirectional sync.
type ReconcileRequest struct {
	// OrgID is the remote organization to sync
	OrgID string

	// Strategy resolves files modified on both sides
	Strategy planner.ConflictStrategy

	// DryRun computes the outcome without writing or uploading anything
	DryRun bool

	// Exact makes a dry run compare remote content for remote-only projects
	Exact bool

	// Progress is invoked after the diff is computed and after each project
	Progress ProgressFunc
}

// ProgressEvent reports per-project progress of a pass.
type ProgressEvent struct {
	// Project is the project just finished, empty for the initial event
	Project string

	// Completed is the number of projects finished so far
	Completed int

	// Total is the number of projects in this pass
	Total int
}

// ProgressFunc receives progress events synchronously.
type ProgressFunc func(ProgressEvent)

// ProjectDiff is the comparison of one matched project.
// Each file name appears in at most one of the three lists.
type ProjectDiff struct {
	Name            string   `json:"name"`
	ID              string   `json:"id"`
	Folder          string   `json:"folder"`
	HasDifferences  bool     `json:"hasDifferences"`
	RemoteOnlyFiles []string `json:"remoteOnlyFiles"`
	LocalOnlyFiles  []string `json:"localOnlyFiles"`
	ModifiedFiles   []string `json:"modifiedFiles"`

	// Error is set when the project could not be compared
	Error string `json:"error,omitempty"`
}

// RemoteProject is a remote project with no local folder yet.
type RemoteProject struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Folder string `json:"folder"`

	// FileCount is the number of remote knowledge files, for display
	FileCount int `json:"fileCount"`
}

// DiffSummary holds the counts of a WorkspaceDiff.
type DiffSummary struct {
	RemoteProjects int `json:"remoteProjects"`
	LocalFolders   int `json:"localFolders"`
	Matched        int `json:"matched"`
	RemoteOnly     int `json:"remoteOnly"`
	LocalOnly      int `json:"localOnly"`
}

// WorkspaceDiff is the workspace-wide comparison.
type WorkspaceDiff struct {
	Summary    DiffSummary     `json:"summary"`
	RemoteOnly []RemoteProject `json:"remoteOnly"`
	LocalOnly  []string        `json:"localOnly"`
	Matched    []ProjectDiff   `json:"matched"`
}

// SyncStats counts the outcome of a pass.
type SyncStats struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
	Uploaded  int `json:"uploaded"`
	Conflicts int `json:"conflicts"`
}

// Outcome classifies what a pass did to one project.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ProjectResult is the outcome for one project.
type ProjectResult struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Folder  string  `json:"folder"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// SyncResult is the outcome of one pass. Success is true iff no errors
// were recorded.
type SyncResult struct {
	// RunID identifies the run
	RunID string `json:"runId,omitempty"`

	// Mode is the kind of pass that ran
	Mode Mode `json:"mode"`

	// DryRun indicates nothing was written
	DryRun bool `json:"dryRun"`

	Success  bool            `json:"success"`
	Stats    SyncStats       `json:"stats"`
	Errors   []string        `json:"errors"`
	Projects []ProjectResult `json:"projects"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// NewSyncResult creates an empty result for a pass.
func NewSyncResult(mode Mode, dryRun bool) *SyncResult {
	return &SyncResult{
		Mode:     mode,
		DryRun:   dryRun,
		Success:  true,
		Errors:   []string{},
		Projects: []ProjectResult{},
	}
}

// AddError records a run-level error.
func (r *SyncResult) AddError(err error) {
	r.Errors = append(r.Errors, err.Error())
	r.finish()
}

// record adds one project's result and bumps the matching counter.
func (r *SyncResult) record(pr ProjectResult) {
	switch pr.Outcome {
	case OutcomeCreated:
		r.Stats.Created++
	case OutcomeUpdated:
		r.Stats.Updated++
	case OutcomeSkipped:
		r.Stats.Skipped++
	case OutcomeFailed:
		r.Errors = append(r.Errors, pr.Error)
	}
	r.Projects = append(r.Projects, pr)
	r.finish()
}

// finish derives the error count and success flag.
func (r *SyncResult) finish() {
	r.Stats.Errors = len(r.Errors)
	r.Success = len(r.Errors) == 0
}

// Package engine provides the top-level sync driver for worksync.
//
// The engine package sits between the CLI and the sync passes. It selects a
// pass, reports progress through phases (fetching, syncing, then complete or
// error), stamps each run with an ID and checkpoints the workspace config.
//
// Key components:
//   - Engine: Main orchestrator called by the CLI
//   - Run: Executes one download or bidirectional pass
//   - WorkspaceDiff: Read-only preview of what a sync would touch
//   - Settings: Reads and updates the workspace config
package engine

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/danieljhkim/worksync/internal/clock"
	"github.com/danieljhkim/worksync/internal/fsops"
	"github.com/danieljhkim/worksync/internal/hash"
	"github.com/danieljhkim/worksync/internal/remote"
	"github.com/danieljhkim/worksync/internal/state"
	"github.com/danieljhkim/worksync/internal/sync"
)

// Engine orchestrates sync runs for one workspace and organization.
// It is the main API surface called by the CLI.
type Engine struct {
	syncer   *sync.Syncer
	tree     fsops.LocalTree
	config   state.ConfigStore
	clock    clock.Clock
	logger   *slog.Logger
	orgID    string
	entropy  io.Reader
	progress ProgressFunc
}

// New creates a new Engine with the given dependencies.
func New(
	remoteStore remote.Store,
	tree fsops.LocalTree,
	config state.ConfigStore,
	hasher hash.Hasher,
	clk clock.Clock,
	orgID string,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		syncer:  sync.New(remoteStore, tree, config, hasher, clk, logger),
		tree:    tree,
		config:  config,
		clock:   clk,
		logger:  logger,
		orgID:   orgID,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// SetProgressCallback registers fn to receive progress for later runs.
func (e *Engine) SetProgressCallback(fn ProgressFunc) {
	e.progress = fn
}

// Run executes one sync pass.
//
// The result is never nil: on partial failure it carries the statistics of
// everything that succeeded plus the error list. The returned error is set
// only when the pass could not run (wrapping ErrFatal) or was canceled.
func (e *Engine) Run(ctx context.Context, req *RunRequest) (*sync.SyncResult, error) {
	started := e.clock.Now()
	runID := e.newRunID(started)
	track := &tracker{emit: e.progress}
	logger := e.logger.With("run", runID, "mode", req.Mode)

	result, err := e.dispatch(ctx, req, track)
	result.RunID = runID
	result.StartedAt = started

	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			logger.Warn("sync canceled", "error", err)
			result.AddError(errors.New("sync canceled"))
		default:
			logger.Error("sync failed", "error", err)
			result.AddError(err)
			err = fmt.Errorf("%w: %w", ErrFatal, err)
		}
	}

	if !req.DryRun {
		if err == nil && result.Success {
			if touchErr := e.config.TouchLastSync(); touchErr != nil {
				logger.Warn("failed to record last sync time", "error", touchErr)
			}
		}
		if saveErr := e.saveConfig(); saveErr != nil {
			logger.Error("failed to save workspace config", "error", saveErr)
			result.AddError(saveErr)
		}
	}

	result.FinishedAt = e.clock.Now()

	if err != nil {
		track.phase(PhaseError, err.Error())
		return result, err
	}

	track.done = track.total
	track.phase(PhaseComplete, summarize(result))
	logger.Info("sync finished",
		"created", result.Stats.Created,
		"updated", result.Stats.Updated,
		"skipped", result.Stats.Skipped,
		"uploaded", result.Stats.Uploaded,
		"conflicts", result.Stats.Conflicts,
		"errors", result.Stats.Errors,
		"duration", clock.Since(e.clock, started),
	)
	return result, nil
}

// dispatch runs the pass selected by req.
func (e *Engine) dispatch(ctx context.Context, req *RunRequest, track *tracker) (*sync.SyncResult, error) {
	if e.orgID == "" {
		return sync.NewSyncResult(req.Mode, req.DryRun), ErrNotConfigured
	}

	track.phase(PhaseFetching, "fetching projects")

	switch req.Mode {
	case sync.ModeDownload:
		return e.syncer.Download(ctx, &sync.DownloadRequest{
			OrgID:    e.orgID,
			DryRun:   req.DryRun,
			Exact:    req.Exact,
			Progress: track.onSync,
		})

	case sync.ModeBidirectional:
		strategy := req.Strategy
		if strategy == "" {
			cfg, err := e.config.Current()
			if err != nil {
				return sync.NewSyncResult(req.Mode, req.DryRun), err
			}
			strategy = cfg.Settings.ConflictResolution
		}
		if !strategy.IsValid() {
			return sync.NewSyncResult(req.Mode, req.DryRun), fmt.Errorf("%w: invalid conflict strategy %q", ErrValidation, strategy)
		}
		return e.syncer.Reconcile(ctx, &sync.ReconcileRequest{
			OrgID:    e.orgID,
			Strategy: strategy,
			DryRun:   req.DryRun,
			Exact:    req.Exact,
			Progress: track.onSync,
		})

	default:
		return sync.NewSyncResult(req.Mode, req.DryRun), fmt.Errorf("%w: unknown sync mode %q", ErrValidation, req.Mode)
	}
}

// WorkspaceDiff returns a read-only preview of the workspace.
func (e *Engine) WorkspaceDiff(ctx context.Context) (*sync.WorkspaceDiff, error) {
	if e.orgID == "" {
		return nil, ErrNotConfigured
	}
	return e.syncer.DiffWorkspace(ctx, e.orgID)
}

// WorkspaceConfig returns a copy of the workspace config for display.
func (e *Engine) WorkspaceConfig() (*state.WorkspaceConfig, error) {
	cfg, err := e.config.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace config: %w", err)
	}
	return cfg.Clone(), nil
}

// InitWorkspace writes the workspace config if none exists yet and reports
// whether it was created.
func (e *Engine) InitWorkspace() (bool, error) {
	_, ok, err := e.tree.ReadText(state.MetaDir, state.ConfigFileName)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if err := e.saveConfig(); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateSettings applies update to the workspace settings and saves them.
func (e *Engine) UpdateSettings(update SettingsUpdate) (*state.WorkspaceConfig, error) {
	cfg, err := e.config.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace config: %w", err)
	}

	if update.ConflictResolution != nil {
		if !update.ConflictResolution.IsValid() {
			return nil, fmt.Errorf("%w: invalid conflict strategy %q", ErrValidation, *update.ConflictResolution)
		}
		cfg.Settings.ConflictResolution = *update.ConflictResolution
	}
	if update.SyncChats != nil {
		cfg.Settings.SyncChats = *update.SyncChats
	}

	if err := e.config.Save(cfg); err != nil {
		return nil, fmt.Errorf("failed to save workspace config: %w", err)
	}
	return cfg.Clone(), nil
}

func (e *Engine) saveConfig() error {
	cfg, err := e.config.Current()
	if err != nil {
		return err
	}
	return e.config.Save(cfg)
}

// newRunID returns a ULID for a run started at t.
func (e *Engine) newRunID(t time.Time) string {
	id, err := ulid.New(ulid.Timestamp(t), e.entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

// summarize renders the one-line summary of a finished run.
func summarize(r *sync.SyncResult) string {
	msg := fmt.Sprintf("%d created, %d updated, %d skipped", r.Stats.Created, r.Stats.Updated, r.Stats.Skipped)
	if r.Mode == sync.ModeBidirectional {
		msg += fmt.Sprintf(", %d uploaded, %d conflicts", r.Stats.Uploaded, r.Stats.Conflicts)
	}
	if r.Stats.Errors > 0 {
		msg += fmt.Sprintf(", %d errors", r.Stats.Errors)
	}
	return msg
}

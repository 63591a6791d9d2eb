// Package sync implements the workspace sync passes: comparing projects,
// diffing a workspace, downloading remote projects and reconciling both
// directions under a conflict strategy.
//
// Projects are processed one at a time and files within a project
// sequentially. A file failure never stops its siblings; failures are
// aggregated into one ProjectError per project after all files have been
// attempted. Only a failure to list remote projects aborts a pass.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/danieljhkim/worksync/internal/clock"
	"github.com/danieljhkim/worksync/internal/fsops"
	"github.com/danieljhkim/worksync/internal/hash"
	"github.com/danieljhkim/worksync/internal/naming"
	"github.com/danieljhkim/worksync/internal/remote"
	"github.com/danieljhkim/worksync/internal/state"
)

const (
	// InstructionsFileName is the virtual file holding a project's
	// instructions, stored at the project folder root.
	InstructionsFileName = "AGENTS.md"

	// ContextDir holds a project's knowledge files.
	ContextDir = "context"

	// ChatsDir holds exported conversation transcripts.
	ChatsDir = "chats"
)

// metadataPath names the project sidecar in file-level errors.
var metadataPath = path.Join(state.MetaDir, state.MetadataFileName)

// Syncer runs sync passes between a remote store and a local workspace.
type Syncer struct {
	remote   remote.Store
	tree     fsops.LocalTree
	config   state.ConfigStore
	hasher   hash.Hasher
	clock    clock.Clock
	resolver *naming.Resolver
	logger   *slog.Logger
}

// New creates a new Syncer with the specified dependencies.
func New(
	remoteStore remote.Store,
	tree fsops.LocalTree,
	config state.ConfigStore,
	hasher hash.Hasher,
	clock clock.Clock,
	logger *slog.Logger,
) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		remote:   remoteStore,
		tree:     tree,
		config:   config,
		hasher:   hasher,
		clock:    clock,
		resolver: naming.NewResolver(),
		logger:   logger,
	}
}

// fileDir returns the directory holding fileName inside a project folder.
func fileDir(folder, fileName string) string {
	if fileName == InstructionsFileName {
		return folder
	}
	return path.Join(folder, ContextDir)
}

// run carries the state of one pass.
type run struct {
	orgID  string
	dryRun bool

	// exact makes a dry run fetch remote content and compare it instead
	// of estimating from folder existence
	exact bool

	// mapping is the working project map; in a dry run it is a private
	// copy so collisions still resolve consistently within the pass.
	mapping map[string]string

	settings state.Settings
	result   *SyncResult
	progress ProgressFunc
	total    int
	done     int

	// conversations is fetched once per pass when chats are exported
	conversations     []remote.ConversationSummary
	conversationsErr  error
	conversationsRead bool
}

func (s *Syncer) newRun(orgID string, mode Mode, dryRun, exact bool, progress ProgressFunc) (*run, error) {
	cfg, err := s.config.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace config: %w", err)
	}

	mapping := cfg.ProjectMap
	if dryRun {
		mapping = cfg.Clone().ProjectMap
	}

	return &run{
		orgID:    orgID,
		dryRun:   dryRun,
		exact:    exact,
		mapping:  mapping,
		settings: cfg.Settings,
		result:   NewSyncResult(mode, dryRun),
		progress: progress,
	}, nil
}

func (r *run) start(total int) {
	r.total = total
	if r.progress != nil {
		r.progress(ProgressEvent{Total: total})
	}
}

func (r *run) finishProject(pr ProjectResult) {
	r.result.record(pr)
	r.done++
	if r.progress != nil {
		r.progress(ProgressEvent{Project: pr.Name, Completed: r.done, Total: r.total})
	}
}

// bindFolder commits folder as the project's binding. Passes that resolved
// folders up front bind exactly those names so later projects cannot take
// them.
func (s *Syncer) bindFolder(r *run, p remote.Project, folder string) error {
	if existing, ok := r.mapping[p.ID]; ok && existing == folder {
		return nil
	}

	if !r.dryRun {
		if err := s.config.RecordProjectMapping(p.ID, folder); err != nil {
			return fmt.Errorf("failed to record folder for project %q: %w", p.Name, err)
		}
	}
	r.mapping[p.ID] = folder
	return nil
}

// write stores content unless the pass is a dry run.
func (s *Syncer) write(r *run, dir, name, content string) error {
	if r.dryRun {
		return nil
	}
	return s.tree.WriteText(dir, name, content)
}

// writeMetadata refreshes the project sidecar when the project changed or
// the sidecar no longer describes it. A failed write is recorded against
// the sidecar path.
func (s *Syncer) writeMetadata(r *run, p remote.Project, folder string, outcome Outcome, fails *fileErrors) {
	if r.dryRun {
		return
	}
	if outcome == OutcomeSkipped {
		meta, err := state.LoadProjectMetadata(s.tree, folder)
		if err == nil && meta.Describes(p.ID, p.Name, r.orgID) {
			return
		}
	}

	meta := &state.ProjectMetadata{
		ID:       p.ID,
		Name:     p.Name,
		OrgID:    r.orgID,
		SyncedAt: s.clock.Now(),
	}
	if err := state.SaveProjectMetadata(s.tree, folder, meta); err != nil {
		fails.add(metadataPath, err)
	}
}

// projectConversations returns the conversations belonging to a project,
// listing the organization's conversations at most once per pass.
func (s *Syncer) projectConversations(ctx context.Context, r *run, projectID string) ([]remote.ConversationSummary, error) {
	if !r.conversationsRead {
		r.conversations, r.conversationsErr = s.remote.GetConversations(ctx, r.orgID)
		r.conversationsRead = true
	}
	if r.conversationsErr != nil {
		return nil, r.conversationsErr
	}

	var out []remote.ConversationSummary
	for _, c := range r.conversations {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

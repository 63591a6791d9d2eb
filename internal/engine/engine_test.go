package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/worksync/internal/clock"
	"github.com/danieljhkim/worksync/internal/fsops"
	"github.com/danieljhkim/worksync/internal/hash"
	"github.com/danieljhkim/worksync/internal/planner"
	"github.com/danieljhkim/worksync/internal/remote"
	"github.com/danieljhkim/worksync/internal/state"
	"github.com/danieljhkim/worksync/internal/sync"
)

type testEnv struct {
	engine *Engine
	remote *remote.FakeStore
	tree   *fsops.Tree
	clock  *clock.FakeClock
}

func newTestEnv(t *testing.T, orgID string) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFakeClock(time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC))
	tree := fsops.NewMemTree()
	store := remote.NewFakeStore(clk)
	config := state.NewFileConfigStore(tree, clk, logger)

	return &testEnv{
		engine: New(store, tree, config, hash.NewSHA256Hasher(), clk, orgID, logger),
		remote: store,
		tree:   tree,
		clock:  clk,
	}
}

func (env *testEnv) persisted(t *testing.T) *state.WorkspaceConfig {
	t.Helper()
	cfg, err := state.NewFileConfigStore(env.tree, env.clock, nil).Load()
	require.NoError(t, err)
	return cfg
}

func TestEngine_RunDownload(t *testing.T) {
	env := newTestEnv(t, "org")
	env.remote.AddProject(remote.Project{ID: "p1", Name: "Alpha"})
	env.remote.AddProject(remote.Project{ID: "p2", Name: "Beta"})
	env.remote.SetFile("p1", remote.FileRecord{FileName: "a.md", Content: "a"})

	var events []Progress
	env.engine.SetProgressCallback(func(p Progress) { events = append(events, p) })

	res, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Stats.Created)
	assert.Equal(t, sync.ModeDownload, res.Mode)
	_, err = ulid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, env.clock.Now(), res.StartedAt)

	phases := make([]Phase, len(events))
	for i, ev := range events {
		phases[i] = ev.Phase
	}
	assert.Equal(t, []Phase{PhaseFetching, PhaseSyncing, PhaseSyncing, PhaseSyncing, PhaseComplete}, phases)
	assert.Equal(t, Progress{Phase: PhaseSyncing, CurrentProject: "Alpha", TotalProjects: 2, CompletedProjects: 1, Percentage: 50, Message: "synced Alpha"}, events[2])
	assert.Equal(t, 100, events[4].Percentage)

	cfg := env.persisted(t)
	assert.Equal(t, map[string]string{"p1": "Alpha", "p2": "Beta"}, cfg.ProjectMap)
	require.NotNil(t, cfg.LastSyncAt)
	assert.Equal(t, env.clock.Now(), *cfg.LastSyncAt)
}

func TestEngine_RunBidirectionalUsesWorkspaceStrategy(t *testing.T) {
	env := newTestEnv(t, "org")
	env.remote.AddProject(remote.Project{ID: "p1", Name: "Alpha"})
	env.remote.SetFile("p1", remote.FileRecord{FileName: "doc.md", Content: "theirs"})
	require.NoError(t, env.tree.WriteText("Alpha/context", "doc.md", "mine"))

	local := planner.StrategyLocal
	_, err := env.engine.UpdateSettings(SettingsUpdate{ConflictResolution: &local})
	require.NoError(t, err)

	res, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeBidirectional})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Conflicts)
	assert.Equal(t, 1, res.Stats.Uploaded)
	assert.Equal(t, "mine", env.remote.Files("p1")[0].Content)
}

func TestEngine_RunFatal(t *testing.T) {
	env := newTestEnv(t, "org")
	env.remote.SetError(remote.OpListProjects, "", &remote.RemoteError{Op: "list projects", StatusCode: 401, Code: remote.CodeUnauthorized})

	var last Progress
	env.engine.SetProgressCallback(func(p Progress) { last = p })

	res, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatal)
	assert.ErrorIs(t, err, remote.ErrUnauthorized)

	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, PhaseError, last.Phase)
	assert.Nil(t, env.persisted(t).LastSyncAt)
}

func TestEngine_RunPartialFailure(t *testing.T) {
	env := newTestEnv(t, "org")
	env.remote.AddProject(remote.Project{ID: "p1", Name: "Alpha"})
	env.remote.AddProject(remote.Project{ID: "p2", Name: "Beta"})
	env.remote.SetError(remote.OpGetProjectFiles, "p1", &remote.RemoteError{Op: "get project files", StatusCode: 500, Code: remote.CodeServer})

	var last Progress
	env.engine.SetProgressCallback(func(p Progress) { last = p })

	res, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload})
	require.NoError(t, err, "per-project failures are not fatal")
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Stats.Errors)
	assert.Equal(t, 1, res.Stats.Created)
	assert.Equal(t, PhaseComplete, last.Phase)
	assert.Nil(t, env.persisted(t).LastSyncAt, "last sync only moves on success")
	assert.Equal(t, "Beta", env.persisted(t).ProjectMap["p2"])
}

func TestEngine_RunCanceled(t *testing.T) {
	env := newTestEnv(t, "org")
	env.remote.AddProject(remote.Project{ID: "p1", Name: "Alpha"})
	env.remote.AddProject(remote.Project{ID: "p2", Name: "Beta"})

	ctx, cancel := context.WithCancel(context.Background())
	env.engine.SetProgressCallback(func(p Progress) {
		if p.CompletedProjects == 1 {
			cancel()
		}
	})

	res, err := env.engine.Run(ctx, &RunRequest{Mode: sync.ModeDownload})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrFatal)
	assert.Equal(t, 1, res.Stats.Created)
	assert.Contains(t, res.Errors, "sync canceled")
	assert.Equal(t, map[string]string{"p1": "Alpha"}, env.persisted(t).ProjectMap, "config is saved on cancel")
}

func TestEngine_RunDryRunSavesNothing(t *testing.T) {
	env := newTestEnv(t, "org")
	env.remote.AddProject(remote.Project{ID: "p1", Name: "Alpha"})

	res, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload, DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Stats.Created)

	dirs, err := env.tree.ListDirs("")
	require.NoError(t, err)
	assert.Empty(t, dirs)
	_, ok, err := env.tree.ReadText(state.MetaDir, state.ConfigFileName)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngine_RunExactDryRunReadsContent(t *testing.T) {
	env := newTestEnv(t, "org")
	env.remote.AddProject(remote.Project{ID: "p1", Name: "Alpha"})

	_, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, env.remote.Calls(remote.OpGetProjectFiles), "estimating dry run")

	_, err = env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload, DryRun: true, Exact: true})
	require.NoError(t, err)
	assert.Equal(t, 1, env.remote.Calls(remote.OpGetProjectFiles))
}

func TestEngine_RunValidation(t *testing.T) {
	t.Run("unknown mode", func(t *testing.T) {
		env := newTestEnv(t, "org")
		_, err := env.engine.Run(context.Background(), &RunRequest{Mode: "sideways"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("invalid strategy", func(t *testing.T) {
		env := newTestEnv(t, "org")
		_, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeBidirectional, Strategy: "coinflip"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing org", func(t *testing.T) {
		env := newTestEnv(t, "")
		res, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload})
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.NotNil(t, res)
	})
}

func TestEngine_RunIDsAreUnique(t *testing.T) {
	env := newTestEnv(t, "org")
	first, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload})
	require.NoError(t, err)
	second, err := env.engine.Run(context.Background(), &RunRequest{Mode: sync.ModeDownload})
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestEngine_WorkspaceDiff(t *testing.T) {
	env := newTestEnv(t, "org")
	env.remote.AddProject(remote.Project{ID: "p1", Name: "Alpha"})
	require.NoError(t, env.tree.EnsureDir("Local"))

	diff, err := env.engine.WorkspaceDiff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, diff.Summary.RemoteOnly)
	assert.Equal(t, []string{"Local"}, diff.LocalOnly)
}

func TestEngine_WorkspaceConfigIsACopy(t *testing.T) {
	env := newTestEnv(t, "org")
	cfg, err := env.engine.WorkspaceConfig()
	require.NoError(t, err)
	cfg.ProjectMap["p9"] = "Hacked"

	again, err := env.engine.WorkspaceConfig()
	require.NoError(t, err)
	assert.NotContains(t, again.ProjectMap, "p9")
}

func TestEngine_InitWorkspace(t *testing.T) {
	env := newTestEnv(t, "org")

	created, err := env.engine.InitWorkspace()
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.engine.InitWorkspace()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEngine_UpdateSettings(t *testing.T) {
	env := newTestEnv(t, "org")

	on := true
	newer := planner.StrategyNewer
	cfg, err := env.engine.UpdateSettings(SettingsUpdate{SyncChats: &on, ConflictResolution: &newer})
	require.NoError(t, err)
	assert.True(t, cfg.Settings.SyncChats)
	assert.Equal(t, planner.StrategyNewer, env.persisted(t).Settings.ConflictResolution)

	bad := planner.ConflictStrategy("bogus")
	_, err = env.engine.UpdateSettings(SettingsUpdate{ConflictResolution: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 0))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 100, percentage(3, 3))
}

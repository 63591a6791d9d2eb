package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/worksync/internal/fsops"
	"github.com/danieljhkim/worksync/internal/planner"
	"github.com/danieljhkim/worksync/internal/remote"
)

func (f *fixture) reconcile(t *testing.T, strategy planner.ConflictStrategy, dryRun bool) *SyncResult {
	t.Helper()
	res, err := f.syncer.Reconcile(context.Background(), &ReconcileRequest{OrgID: testOrg, Strategy: strategy, DryRun: dryRun})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestReconcile_EndToEnd(t *testing.T) {
	f := newFixture(t)

	// A: three files, identical on both sides
	f.addProject("pa", "A", "a1.md", "1", "a2.md", "2", "a3.md", "3")
	// B: one shared file plus one added locally
	f.addProject("pb", "B", "b1.md", "shared")
	// C: new on the remote
	f.addProject("pc", "C", "c1.md", "x", "c2.md", "y")

	require.NoError(t, f.config.RecordProjectMapping("pa", "A"))
	require.NoError(t, f.config.RecordProjectMapping("pb", "B"))
	f.writeLocal(t, "A", "a1.md", "1")
	f.writeLocal(t, "A", "a2.md", "2")
	f.writeLocal(t, "A", "a3.md", "3")
	f.writeLocal(t, "B", "b1.md", "shared")
	f.writeLocal(t, "B", "b2.md", "new locally")

	res := f.reconcile(t, planner.StrategyNewer, false)

	assert.Equal(t, SyncStats{Created: 1, Updated: 1, Skipped: 1, Uploaded: 1}, res.Stats)
	assert.True(t, res.Success)
	assert.Equal(t, []remote.Upload{{ProjectID: "pb", FileName: "b2.md", Content: "new locally"}}, f.remote.Uploads())
	assert.Equal(t, "C", f.mapping(t)["pc"])
	c2, ok := f.readLocal(t, "C", "c2.md")
	require.True(t, ok)
	assert.Equal(t, "y", c2)

	// A second pass has nothing left to do.
	again := f.reconcile(t, planner.StrategyNewer, false)
	assert.Equal(t, SyncStats{Skipped: 3}, again.Stats)
}

func TestReconcile_RemoteOnlyFileDownloaded(t *testing.T) {
	f := newFixture(t)
	f.addProject("p1", "Alpha", "a.md", "a", "new.md", "fresh")
	f.remote.SetInstructions("p1", "prompt")
	require.NoError(t, f.config.RecordProjectMapping("p1", "Alpha"))
	f.writeLocal(t, "Alpha", "a.md", "a")

	res := f.reconcile(t, planner.StrategyLocal, false)

	assert.Equal(t, SyncStats{Updated: 1}, res.Stats)
	content, ok := f.readLocal(t, "Alpha", "new.md")
	require.True(t, ok)
	assert.Equal(t, "fresh", content)
	ins, ok, err := f.tree.ReadText("Alpha", InstructionsFileName)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "prompt", ins)
	assert.Empty(t, f.remote.Uploads())
}

func TestReconcile_BindsScannedFolders(t *testing.T) {
	f := newFixture(t)
	// p1 has a folder on disk but no binding yet; p2 shares its name and
	// exists only on the remote.
	f.addProject("p1", "Foo", "a.md", "a")
	f.addProject("p2", "Foo", "b.md", "b")
	f.writeLocal(t, "Foo", "a.md", "a")

	res := f.reconcile(t, planner.StrategyRemote, false)

	assert.Equal(t, SyncStats{Created: 1, Skipped: 1}, res.Stats)
	assert.Equal(t, map[string]string{"p1": "Foo", "p2": "Foo_1"}, f.mapping(t))
	_, ok := f.readLocal(t, "Foo", "b.md")
	assert.False(t, ok, "remote-only project must not write into a matched folder")
	content, ok := f.readLocal(t, "Foo_1", "b.md")
	require.True(t, ok)
	assert.Equal(t, "b", content)
}

func TestReconcile_Strategies(t *testing.T) {
	tests := []struct {
		name        string
		strategy    planner.ConflictStrategy
		wantLocal   string
		wantRemote  string
		wantOutcome Outcome
	}{
		{"local uploads", planner.StrategyLocal, "mine", "mine", OutcomeUpdated},
		{"remote overwrites", planner.StrategyRemote, "theirs", "theirs", OutcomeUpdated},
		{"prompt leaves both", planner.StrategyPrompt, "mine", "theirs", OutcomeSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addProject("p1", "Alpha", "doc.md", "theirs")
			require.NoError(t, f.config.RecordProjectMapping("p1", "Alpha"))
			f.writeLocal(t, "Alpha", "doc.md", "mine")

			res := f.reconcile(t, tt.strategy, false)

			assert.Equal(t, 1, res.Stats.Conflicts)
			assert.Equal(t, tt.wantOutcome, res.Projects[0].Outcome)
			local, _ := f.readLocal(t, "Alpha", "doc.md")
			assert.Equal(t, tt.wantLocal, local)
			assert.Equal(t, tt.wantRemote, f.remote.Files("p1")[0].Content)
		})
	}
}

func TestReconcile_NewerStrategy(t *testing.T) {
	remoteTime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		localTime  time.Time
		wantUpload bool
	}{
		{"local newer uploads", remoteTime.Add(time.Minute), true},
		{"tie keeps remote", remoteTime, false},
		{"remote newer downloads", remoteTime.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			f := newFixtureWithTree(t, fsops.NewOSTree(root))
			f.remote.AddProject(remote.Project{ID: "p1", Name: "Alpha"})
			f.remote.SetFile("p1", remote.FileRecord{FileName: "doc.md", Content: "theirs", UpdatedAt: remoteTime})
			require.NoError(t, f.config.RecordProjectMapping("p1", "Alpha"))
			f.writeLocal(t, "Alpha", "doc.md", "mine")
			localPath := filepath.Join(root, "Alpha", ContextDir, "doc.md")
			require.NoError(t, os.Chtimes(localPath, tt.localTime, tt.localTime))

			res := f.reconcile(t, planner.StrategyNewer, false)

			assert.Equal(t, 1, res.Stats.Conflicts)
			local, _ := f.readLocal(t, "Alpha", "doc.md")
			if tt.wantUpload {
				assert.Equal(t, 1, res.Stats.Uploaded)
				assert.Equal(t, "mine", local)
			} else {
				assert.Equal(t, 0, res.Stats.Uploaded)
				assert.Equal(t, "theirs", local)
			}
		})
	}
}

func TestReconcile_NewerWithoutRemoteTimestampFavorsLocal(t *testing.T) {
	f := newFixtureWithTree(t, fsops.NewOSTree(t.TempDir()))
	f.addProject("p1", "Alpha")
	f.remote.SetInstructions("p1", "remote prompt")
	require.NoError(t, f.config.RecordProjectMapping("p1", "Alpha"))
	require.NoError(t, f.tree.WriteText("Alpha", InstructionsFileName, "local prompt"))

	res := f.reconcile(t, planner.StrategyNewer, false)

	assert.Equal(t, 1, res.Stats.Uploaded)
	assert.Equal(t, "local prompt", f.remote.Instructions("p1"))
	assert.Equal(t, 1, f.remote.Calls(remote.OpUpdateInstructions))
}

func TestReconcile_LocalInstructionsUploaded(t *testing.T) {
	f := newFixture(t)
	f.addProject("p1", "Alpha")
	require.NoError(t, f.config.RecordProjectMapping("p1", "Alpha"))
	require.NoError(t, f.tree.WriteText("Alpha", InstructionsFileName, "new prompt"))

	res := f.reconcile(t, planner.StrategyRemote, false)

	assert.Equal(t, SyncStats{Updated: 1, Uploaded: 1}, res.Stats)
	assert.Equal(t, "new prompt", f.remote.Instructions("p1"))
	assert.Empty(t, f.remote.Uploads(), "instructions are not uploaded as a knowledge file")
}

func TestReconcile_LocalOnlyFoldersUntouched(t *testing.T) {
	f := newFixture(t)
	f.writeLocal(t, "Scratch", "mine.md", "private")
	f.tree.reset()

	res := f.reconcile(t, planner.StrategyLocal, false)

	assert.Equal(t, SyncStats{}, res.Stats)
	assert.Empty(t, f.remote.Uploads())
	assert.Empty(t, f.tree.contentWrites())
}

func TestReconcile_UploadFailure(t *testing.T) {
	f := newFixture(t)
	f.addProject("p1", "Alpha", "a.md", "a")
	require.NoError(t, f.config.RecordProjectMapping("p1", "Alpha"))
	f.writeLocal(t, "Alpha", "a.md", "a")
	f.writeLocal(t, "Alpha", "good.md", "g")
	f.writeLocal(t, "Alpha", "bad.md", "b")
	f.remote.SetError(remote.OpUploadFile, "bad.md", &remote.RemoteError{Op: "upload file", StatusCode: 429, Code: remote.CodeRateLimited})

	res := f.reconcile(t, planner.StrategyRemote, false)

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Stats.Uploaded)
	assert.Equal(t, 1, res.Stats.Errors)
	assert.Contains(t, res.Errors[0], "bad.md")
	assert.Equal(t, OutcomeFailed, res.Projects[0].Outcome)
}

func TestReconcile_DryRun(t *testing.T) {
	f := newFixture(t)
	f.addProject("p1", "Alpha", "a.md", "remote")
	f.addProject("p2", "Beta", "b.md", "b")
	require.NoError(t, f.config.RecordProjectMapping("p1", "Alpha"))
	f.writeLocal(t, "Alpha", "a.md", "local")
	f.writeLocal(t, "Alpha", "extra.md", "x")
	f.tree.reset()

	res := f.reconcile(t, planner.StrategyLocal, true)

	assert.Equal(t, SyncStats{Created: 1, Updated: 1, Uploaded: 2, Conflicts: 1}, res.Stats)
	assert.Empty(t, f.tree.writes)
	assert.Empty(t, f.remote.Uploads())
	assert.NotContains(t, f.mapping(t), "p2")
}

func TestReconcile_InvalidStrategy(t *testing.T) {
	f := newFixture(t)
	res, err := f.syncer.Reconcile(context.Background(), &ReconcileRequest{OrgID: testOrg, Strategy: "sometimes"})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 0, f.remote.Calls(remote.OpListProjects))
}

func TestReconcile_DefaultStrategyIsRemote(t *testing.T) {
	f := newFixture(t)
	f.addProject("p1", "Alpha", "doc.md", "theirs")
	require.NoError(t, f.config.RecordProjectMapping("p1", "Alpha"))
	f.writeLocal(t, "Alpha", "doc.md", "mine")

	f.reconcile(t, "", false)

	local, _ := f.readLocal(t, "Alpha", "doc.md")
	assert.Equal(t, "theirs", local)
}

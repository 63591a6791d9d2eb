package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/worksync/internal/clock"
	"github.com/danieljhkim/worksync/internal/fsops"
	"github.com/danieljhkim/worksync/internal/hash"
	"github.com/danieljhkim/worksync/internal/remote"
	"github.com/danieljhkim/worksync/internal/state"
)

const testOrg = "org-1"

var errDiskFull = errors.New("disk full")

// spyTree records writes and can fail writes of selected files.
type spyTree struct {
	fsops.LocalTree
	writes []string
	fail   map[string]bool
}

func newSpyTree(inner fsops.LocalTree) *spyTree {
	return &spyTree{LocalTree: inner, fail: make(map[string]bool)}
}

func (s *spyTree) WriteText(dir, name, content string) error {
	if s.fail[name] {
		return &fsops.IOError{Op: "write", Path: path.Join(dir, name), Err: errDiskFull}
	}
	s.writes = append(s.writes, path.Join(dir, name))
	return s.LocalTree.WriteText(dir, name, content)
}

// contentWrites returns recorded writes outside worksync's own state files.
func (s *spyTree) contentWrites() []string {
	var out []string
	for _, w := range s.writes {
		if !strings.Contains(w, state.MetaDir) {
			out = append(out, w)
		}
	}
	return out
}

func (s *spyTree) reset() {
	s.writes = nil
}

type fixture struct {
	remote *remote.FakeStore
	tree   *spyTree
	config *state.FileConfigStore
	clock  *clock.FakeClock
	syncer *Syncer
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithTree(t, fsops.NewMemTree())
}

func newFixtureWithTree(t *testing.T, inner fsops.LocalTree) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	tree := newSpyTree(inner)
	config := state.NewFileConfigStore(tree, clk, logger)
	_, err := config.Load()
	require.NoError(t, err)
	store := remote.NewFakeStore(clk)

	return &fixture{
		remote: store,
		tree:   tree,
		config: config,
		clock:  clk,
		syncer: New(store, tree, config, hash.NewSHA256Hasher(), clk, logger),
	}
}

// addProject adds a remote project with knowledge files given as name/content pairs.
func (f *fixture) addProject(id, name string, files ...string) {
	f.remote.AddProject(remote.Project{ID: id, Name: name})
	for i := 0; i+1 < len(files); i += 2 {
		f.remote.SetFile(id, remote.FileRecord{ID: id + "-" + files[i], FileName: files[i], Content: files[i+1]})
	}
}

// writeLocal writes a file into a project's context folder.
func (f *fixture) writeLocal(t *testing.T, folder, name, content string) {
	t.Helper()
	require.NoError(t, f.tree.LocalTree.WriteText(path.Join(folder, ContextDir), name, content))
}

// readLocal reads a file from a project's context folder.
func (f *fixture) readLocal(t *testing.T, folder, name string) (string, bool) {
	t.Helper()
	content, ok, err := f.tree.ReadText(path.Join(folder, ContextDir), name)
	require.NoError(t, err)
	return content, ok
}

func (f *fixture) mapping(t *testing.T) map[string]string {
	t.Helper()
	cfg, err := f.config.Current()
	require.NoError(t, err)
	return cfg.ProjectMap
}

func (f *fixture) download(t *testing.T, dryRun bool) *SyncResult {
	t.Helper()
	res, err := f.syncer.Download(context.Background(), &DownloadRequest{OrgID: testOrg, DryRun: dryRun})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

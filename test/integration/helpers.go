// Package integration exercises the engine end to end against a real
// workspace directory and an in-memory remote.
package integration

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/worksync/internal/clock"
	"github.com/danieljhkim/worksync/internal/engine"
	"github.com/danieljhkim/worksync/internal/fsops"
	"github.com/danieljhkim/worksync/internal/hash"
	"github.com/danieljhkim/worksync/internal/remote"
	"github.com/danieljhkim/worksync/internal/state"
)

const testOrg = "org-test"

// testEnv holds one workspace wired to a fake remote.
type testEnv struct {
	root   string
	remote *remote.FakeStore
	clock  *clock.FakeClock
	logger *slog.Logger
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return &testEnv{
		root:   t.TempDir(),
		remote: remote.NewFakeStore(clk),
		clock:  clk,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// newEngine builds a fresh engine over the workspace, as a new CLI
// invocation would.
func (e *testEnv) newEngine() *engine.Engine {
	tree := fsops.NewOSTree(e.root)
	config := state.NewFileConfigStore(tree, e.clock, e.logger)
	return engine.New(e.remote, tree, config, hash.NewSHA256Hasher(), e.clock, testOrg, e.logger)
}

// addProject adds a remote project with knowledge files given as name/content pairs.
func (e *testEnv) addProject(id, name string, files ...string) {
	e.remote.AddProject(remote.Project{ID: id, Name: name, UpdatedAt: e.clock.Now()})
	for i := 0; i+1 < len(files); i += 2 {
		e.remote.SetFile(id, remote.FileRecord{
			ID:        id + "-" + files[i],
			FileName:  files[i],
			Content:   files[i+1],
			UpdatedAt: e.clock.Now(),
		})
	}
}

func (e *testEnv) path(parts ...string) string {
	return filepath.Join(append([]string{e.root}, parts...)...)
}

func (e *testEnv) readFile(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(e.path(parts...))
	if err != nil {
		t.Fatalf("failed to read %s: %v", filepath.Join(parts...), err)
	}
	return string(data)
}

func (e *testEnv) writeFile(t *testing.T, content string, parts ...string) {
	t.Helper()
	p := e.path(parts...)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", p, err)
	}
}

func (e *testEnv) exists(parts ...string) bool {
	_, err := os.Stat(e.path(parts...))
	return err == nil
}

package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/danieljhkim/worksync/internal/engine"
	"github.com/danieljhkim/worksync/internal/remote"
	"github.com/danieljhkim/worksync/internal/sync"
)

func TestPull_FullCycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.addProject("p1", "Research Notes", "summary.md", "# Summary")
	env.remote.SetInstructions("p1", "Cite sources.")

	result, err := env.newEngine().Run(ctx, &engine.RunRequest{Mode: sync.ModeDownload})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Success || result.Stats.Created != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if got := env.readFile(t, "Research Notes", "context", "summary.md"); got != "# Summary" {
		t.Errorf("summary.md = %q", got)
	}
	if got := env.readFile(t, "Research Notes", "AGENTS.md"); got != "Cite sources." {
		t.Errorf("AGENTS.md = %q", got)
	}
	if !env.exists("Research Notes", ".worksync", "project.json") {
		t.Error("expected project metadata sidecar")
	}
	if !strings.Contains(env.readFile(t, ".worksync", "workspace.json"), `"p1": "Research Notes"`) {
		t.Error("expected project mapping to be persisted")
	}

	// A second run from a fresh engine finds nothing to do.
	result, err = env.newEngine().Run(ctx, &engine.RunRequest{Mode: sync.ModeDownload})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if result.Stats.Skipped != 1 || result.Stats.Created+result.Stats.Updated != 0 {
		t.Errorf("second run should skip, got %+v", result.Stats)
	}
}

func TestPull_RenamedProjectKeepsFolder(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.addProject("p1", "Alpha", "a.md", "one")
	if _, err := env.newEngine().Run(ctx, &engine.RunRequest{Mode: sync.ModeDownload}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	env.remote.RenameProject("p1", "Beta")
	env.remote.SetFile("p1", remote.FileRecord{ID: "p1-a.md", FileName: "a.md", Content: "two"})

	result, err := env.newEngine().Run(ctx, &engine.RunRequest{Mode: sync.ModeDownload})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.Updated != 1 {
		t.Errorf("expected one update, got %+v", result.Stats)
	}
	if got := env.readFile(t, "Alpha", "context", "a.md"); got != "two" {
		t.Errorf("a.md = %q", got)
	}
	if env.exists("Beta") {
		t.Error("renamed project should not get a new folder")
	}
}

func TestPull_ExportsChatsWhenEnabled(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.addProject("p1", "Alpha")
	env.remote.AddConversation(remote.Conversation{
		ConversationSummary: remote.ConversationSummary{ID: "c0ffee00-1234", Name: "Kickoff", ProjectID: "p1"},
		Messages: []remote.Message{
			{ID: "m1", Sender: "human", Text: "Hello"},
			{ID: "m2", Sender: "assistant", Text: "Hi there"},
		},
	})

	eng := env.newEngine()
	enabled := true
	if _, err := eng.UpdateSettings(engine.SettingsUpdate{SyncChats: &enabled}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if _, err := eng.Run(ctx, &engine.RunRequest{Mode: sync.ModeDownload}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	transcript := env.readFile(t, "Alpha", "chats", "Kickoff_c0ffee00.md")
	for _, want := range []string{"# Kickoff", "Hello", "Hi there"} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q:\n%s", want, transcript)
		}
	}
}

func TestPull_DryRunLeavesWorkspaceEmpty(t *testing.T) {
	env := setupTestEnv(t)

	env.addProject("p1", "Alpha", "a.md", "one")
	result, err := env.newEngine().Run(context.Background(), &engine.RunRequest{Mode: sync.ModeDownload, DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.Created != 1 {
		t.Errorf("dry run should report the would-be creation, got %+v", result.Stats)
	}
	if env.exists("Alpha") || env.exists(".worksync") {
		t.Error("dry run must not write to the workspace")
	}
}

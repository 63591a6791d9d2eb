package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/worksync/internal/engine"
	"github.com/danieljhkim/worksync/internal/state"
	"github.com/danieljhkim/worksync/internal/sync"
)

// runSync executes one pass through the engine with progress rendering.
func runSync(cmd *cobra.Command, a *app, req *engine.RunRequest) (*sync.SyncResult, error) {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if !jsonOutput {
		view := &progressView{}
		defer view.stop()
		a.engine.SetProgressCallback(view.handle)
	}

	return a.engine.Run(ctx, req)
}

// reportResult prints the result of a run, even one that stopped early, and
// returns runErr if set or errSyncIncomplete when the run recorded errors.
func reportResult(cmd *cobra.Command, result *sync.SyncResult, runErr error) error {
	if result == nil {
		return runErr
	}
	if jsonOutput {
		if err := outputJSON(cmd, result); err != nil {
			return err
		}
	} else {
		printResult(newPrinter(cmd), result)
	}

	if runErr != nil {
		return runErr
	}
	if !result.Success {
		return errSyncIncomplete
	}
	return nil
}

func printResult(p *printer, result *sync.SyncResult) {
	title := "Pull"
	if result.Mode == sync.ModeBidirectional {
		title = "Sync"
	}
	if result.DryRun {
		title += " (dry run)"
	}
	p.section(title)

	rows := make([][]string, 0, len(result.Projects))
	for _, pr := range result.Projects {
		rows = append(rows, []string{pr.Name, pr.Folder, string(pr.Outcome)})
	}
	if len(rows) == 0 {
		p.empty("No projects")
	} else {
		p.table([]string{"PROJECT", "FOLDER", "OUTCOME"}, rows)
	}
	p.blank()

	stats := result.Stats
	p.field("Created", fmt.Sprint(stats.Created))
	p.field("Updated", fmt.Sprint(stats.Updated))
	p.field("Skipped", fmt.Sprint(stats.Skipped))
	if result.Mode == sync.ModeBidirectional {
		p.field("Uploaded", fmt.Sprint(stats.Uploaded))
		p.field("Conflicts", fmt.Sprint(stats.Conflicts))
	}
	if stats.Errors > 0 {
		p.fieldColor("Errors", fmt.Sprint(stats.Errors), errorColor)
	}
	p.blank()

	switch {
	case len(result.Errors) > 0:
		p.warning("Finished with " + plural(len(result.Errors), "error", "errors"))
		p.list(result.Errors, 1)
	case result.DryRun:
		p.info("Dry run: no changes were made")
	default:
		p.success("Workspace is up to date")
	}
}

// printSettings prints the settings shared by status, init and settings.
func printSettings(p *printer, cfg *state.WorkspaceConfig) {
	p.field("Sync chats", fmt.Sprint(cfg.Settings.SyncChats))
	p.field("Conflict resolution", string(cfg.Settings.ConflictResolution))
}

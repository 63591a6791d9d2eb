package cli

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/worksync/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the workspace's project mapping and settings",
	Long: `Show the workspace's project-to-folder mapping, its settings and
when it was last synced. Does not contact the remote.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// statusOutput is the JSON shape of the status command.
type statusOutput struct {
	Workspace string                 `json:"workspace"`
	Config    *state.WorkspaceConfig `json:"config"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}

	cfg, err := a.engine.WorkspaceConfig()
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd, &statusOutput{Workspace: a.root, Config: cfg})
	}

	p := newPrinter(cmd)
	p.section("Workspace")
	p.field("Root", a.root)
	lastSync := "never"
	if cfg.LastSyncAt != nil {
		lastSync = cfg.LastSyncAt.Local().Format(time.RFC3339)
	}
	p.field("Last sync", lastSync)
	printSettings(p, cfg)

	p.section("Projects")
	if len(cfg.ProjectMap) == 0 {
		p.empty("No projects synced yet")
		return nil
	}

	ids := make([]string, 0, len(cfg.ProjectMap))
	for id := range cfg.ProjectMap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return cfg.ProjectMap[ids[i]] < cfg.ProjectMap[ids[j]]
	})

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{cfg.ProjectMap[id], id})
	}
	p.table([]string{"FOLDER", "PROJECT ID"}, rows)
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/worksync/internal/engine"
	"github.com/danieljhkim/worksync/internal/planner"
)

var (
	settingsSyncChats bool
	settingsStrategy  string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change workspace settings",
	Long: `Show or change workspace settings.

Without flags the current settings are printed. Settings are stored in the
workspace's .worksync/workspace.json.`,
	Example: `  worksync settings --sync-chats
  worksync settings --strategy newer`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().BoolVar(&settingsSyncChats, "sync-chats", false, "Export conversations into each project's chats/ folder")
	settingsCmd.Flags().StringVar(&settingsStrategy, "strategy", "", "Default conflict strategy: local, remote, newer, prompt")
}

// settingsUpdateFromFlags builds an update from the flags the user set.
func settingsUpdateFromFlags(cmd *cobra.Command, syncChats bool, strategy string) (engine.SettingsUpdate, bool, error) {
	var update engine.SettingsUpdate
	changed := false

	if cmd.Flags().Changed("sync-chats") {
		update.SyncChats = &syncChats
		changed = true
	}
	if cmd.Flags().Changed("strategy") {
		s, err := planner.ParseConflictStrategy(strategy)
		if err != nil {
			return update, false, err
		}
		update.ConflictResolution = &s
		changed = true
	}
	return update, changed, nil
}

func runSettings(cmd *cobra.Command, args []string) error {
	update, changed, err := settingsUpdateFromFlags(cmd, settingsSyncChats, settingsStrategy)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}

	cfg, err := a.engine.WorkspaceConfig()
	if err != nil {
		return err
	}
	if changed {
		cfg, err = a.engine.UpdateSettings(update)
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputJSON(cmd, cfg.Settings)
	}

	p := newPrinter(cmd)
	p.section("Settings")
	printSettings(p, cfg)
	if changed {
		p.blank()
		p.success("Settings saved")
	}
	return nil
}

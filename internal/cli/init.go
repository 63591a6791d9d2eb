package cli

import (
	"github.com/spf13/cobra"
)

var (
	initSyncChats bool
	initStrategy  string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a workspace",
	Long: `Initialize a workspace by writing .worksync/workspace.json.

The workspace is the given directory, the --workspace flag or the current
directory, in that order. An existing workspace is left as is unless
settings flags are given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initSyncChats, "sync-chats", false, "Export conversations into each project's chats/ folder")
	initCmd.Flags().StringVar(&initStrategy, "strategy", "", "Default conflict strategy: local, remote, newer, prompt")
}

// initOutput is the JSON shape of the init command.
type initOutput struct {
	Workspace string `json:"workspace"`
	Created   bool   `json:"created"`
}

func runInit(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := rootCmd.PersistentFlags().Set("workspace", args[0]); err != nil {
			return err
		}
	}

	update, changed, err := settingsUpdateFromFlags(cmd, initSyncChats, initStrategy)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}

	created, err := a.engine.InitWorkspace()
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
		return outputJSON(cmd, &initOutput{Workspace: a.root, Created: created})
	}

	p := newPrinter(cmd)
	if created {
		p.success("Initialized workspace at " + a.root)
	} else {
		p.info("Workspace already initialized at " + a.root)
	}
	printSettings(p, cfg)
	return nil
}

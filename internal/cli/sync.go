package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/worksync/internal/engine"
	"github.com/danieljhkim/worksync/internal/planner"
	"github.com/danieljhkim/worksync/internal/sync"
)

var (
	syncDryRun   bool
	syncExact    bool
	syncStrategy string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the workspace with remote projects in both directions",
	Long: `Reconcile the workspace with remote projects in both directions.

Remote-only files are downloaded and local-only files are uploaded. Files
changed on both sides are resolved with the conflict strategy:

  local   upload the local copy
  remote  download the remote copy
  newer   keep whichever side changed last
  prompt  leave the file untouched and report it

The strategy defaults to the workspace setting.`,
	Args: cobra.NoArgs,
	RunE: runSyncCmd,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show what would change without writing or uploading")
	syncCmd.Flags().BoolVar(&syncExact, "exact", false, "With --dry-run, compare remote content of new projects instead of estimating")
	syncCmd.Flags().StringVar(&syncStrategy, "strategy", "", "Conflict strategy: local, remote, newer, prompt")
}

func runSyncCmd(cmd *cobra.Command, args []string) error {
	var strategy planner.ConflictStrategy
	if syncStrategy != "" {
		s, err := planner.ParseConflictStrategy(syncStrategy)
		if err != nil {
			return err
		}
		strategy = s
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	result, err := runSync(cmd, a, &engine.RunRequest{
		Mode:     sync.ModeBidirectional,
		Strategy: strategy,
		DryRun:   syncDryRun,
		Exact:    syncExact,
	})
	return reportResult(cmd, result, err)
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/worksync/internal/engine"
	"github.com/danieljhkim/worksync/internal/sync"
)

var (
	pullDryRun bool
	pullExact  bool
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download remote projects into the workspace",
	Long: `Download every remote project into the workspace. Remote content wins.

New projects get a folder named after the project. Projects that were
renamed remotely keep their existing folder. Local-only files are left alone.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().BoolVar(&pullDryRun, "dry-run", false, "Show what would change without writing anything")
	pullCmd.Flags().BoolVar(&pullExact, "exact", false, "With --dry-run, compare remote content instead of estimating")
}

func runPull(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	result, err := runSync(cmd, a, &engine.RunRequest{
		Mode:   sync.ModeDownload,
		DryRun: pullDryRun,
		Exact:  pullExact,
	})
	return reportResult(cmd, result, err)
}

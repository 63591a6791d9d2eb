package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/worksync/internal/sync"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Preview differences between the workspace and remote projects",
	Long: `Compare the workspace with remote projects without changing anything.

Lists remote projects with no local folder, local folders with no remote
project, and per-file differences for projects present on both sides.`,
	Args: cobra.NoArgs,
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	diff, err := a.engine.WorkspaceDiff(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd, diff)
	}
	printDiff(newPrinter(cmd), diff)
	return nil
}

func printDiff(p *printer, diff *sync.WorkspaceDiff) {
	p.section("Workspace Diff")
	p.field("Remote projects", fmt.Sprint(diff.Summary.RemoteProjects))
	p.field("Local folders", fmt.Sprint(diff.Summary.LocalFolders))
	p.field("Matched", fmt.Sprint(diff.Summary.Matched))

	p.section("Remote Only")
	if len(diff.RemoteOnly) == 0 {
		p.empty("None")
	} else {
		rows := make([][]string, 0, len(diff.RemoteOnly))
		for _, rp := range diff.RemoteOnly {
			rows = append(rows, []string{rp.Name, rp.Folder, plural(rp.FileCount, "file", "files")})
		}
		p.table([]string{"PROJECT", "FOLDER", "FILES"}, rows)
	}

	p.section("Local Only")
	if len(diff.LocalOnly) == 0 {
		p.empty("None")
	} else {
		p.list(diff.LocalOnly, 1)
	}

	p.section("Matched")
	changed := 0
	for _, pd := range diff.Matched {
		switch {
		case pd.Error != "":
			p.warning(fmt.Sprintf("%s (%s): %s", pd.Name, pd.Folder, pd.Error))
			changed++
		case pd.HasDifferences:
			_, _ = infoColor.Fprintf(p.w, "%s (%s)\n", pd.Name, pd.Folder)
			p.fileGroup("remote only", pd.RemoteOnlyFiles)
			p.fileGroup("local only", pd.LocalOnlyFiles)
			p.fileGroup("modified", pd.ModifiedFiles)
			changed++
		}
	}
	if changed == 0 {
		p.empty("No differences")
	}
}

func (p *printer) fileGroup(label string, files []string) {
	if len(files) == 0 {
		return
	}
	_, _ = valueColor.Fprintf(p.w, "  %s:\n", label)
	p.list(files, 2)
}

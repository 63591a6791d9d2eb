package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput    bool
	cfgFile       string
	flagOrg       string
	flagWorkspace string
	flagBaseURL   string
	flagLogLevel  string
	flagTimeout   time.Duration

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for worksync.
var rootCmd = &cobra.Command{
	Use:     "worksync",
	Version: "dev",
	Short:   "Sync remote projects with a local workspace",
	Long: `worksync keeps a local directory tree in sync with remote projects.

Each remote project maps to one folder holding its instructions (AGENTS.md),
its knowledge files (context/) and optionally exported conversations (chats/).
Folder names stay stable when projects are renamed remotely.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// customHelpFunc renders help with colored group titles. Commands without
// a group are listed last.
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	if desc != "" {
		help.WriteString(desc)
		help.WriteString("\n\n")
	}

	writeTitle(&help, "Usage:")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	if cmd.Example != "" {
		writeTitle(&help, "Examples:")
		help.WriteString(cmd.Example)
		help.WriteString("\n\n")
	}

	groups := append([]*cobra.Group{}, cmd.Groups()...)
	groups = append(groups, &cobra.Group{Title: "Additional Commands:"})
	for _, group := range groups {
		var lines []string
		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				lines = append(lines, fmt.Sprintf("  %-11s %s\n", c.Name(), c.Short))
			}
		}
		if len(lines) == 0 {
			continue
		}
		if group.ID == "" {
			writeTitle(&help, group.Title)
		} else {
			help.WriteString(groupTitleColor.Sprint(group.Title))
			help.WriteString("\n")
		}
		help.WriteString(strings.Join(lines, ""))
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailableInheritedFlags() {
		writeTitle(&help, "Flags:")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func writeTitle(b *strings.Builder, title string) {
	b.WriteString(sectionTitleColor.Sprint(title))
	b.WriteString("\n")
}

func init() {
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&cfgFile, "config", "", "Config file (default ~/.worksync/config.yaml)")
	flags.StringVar(&flagOrg, "org", "", "Remote organization ID")
	flags.StringVarP(&flagWorkspace, "workspace", "w", "", "Workspace root (default current directory)")
	flags.StringVar(&flagBaseURL, "base-url", "", "Remote API base URL")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.DurationVar(&flagTimeout, "timeout", 0, "Timeout for each remote request")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "sync",
		Title: "Sync:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "workspace",
		Title: "Workspace:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the worksync CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetHelpCommandGroupID("cli-tooling")
	rootCmd.SetCompletionCommandGroupID("cli-tooling")

	// Sync commands
	pullCmd.GroupID = "sync"
	syncCmd.GroupID = "sync"
	diffCmd.GroupID = "sync"
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(diffCmd)

	// Workspace commands
	initCmd.GroupID = "workspace"
	statusCmd.GroupID = "workspace"
	settingsCmd.GroupID = "workspace"
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(settingsCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

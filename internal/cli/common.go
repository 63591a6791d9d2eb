package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/worksync/internal/clock"
	"github.com/danieljhkim/worksync/internal/config"
	"github.com/danieljhkim/worksync/internal/engine"
	"github.com/danieljhkim/worksync/internal/fsops"
	"github.com/danieljhkim/worksync/internal/hash"
	"github.com/danieljhkim/worksync/internal/remote"
	"github.com/danieljhkim/worksync/internal/state"
)

// errSyncIncomplete is returned after a run that recorded errors, so the
// process exits non-zero once the result has been printed.
var errSyncIncomplete = errors.New("sync finished with errors")

// app bundles the resolved configuration and the engine for one command.
type app struct {
	cfg    *config.Config
	root   string
	engine *engine.Engine
	logger *slog.Logger
}

// newApp creates an engine with real implementations of all dependencies.
// needRemote requires organization and session credentials.
func newApp(cmd *cobra.Command, needRemote bool) (*app, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	cfg, err := config.Load(paths, cfgFile, rootCmd.PersistentFlags())
	if err != nil {
		return nil, err
	}
	if needRemote {
		if err := cfg.RequireRemote(); err != nil {
			return nil, err
		}
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	root, err := workspaceRoot(cfg.Workspace)
	if err != nil {
		return nil, err
	}

	tree := fsops.NewOSTree(root)
	clk := &clock.RealClock{}
	client := remote.NewClient(remote.ClientOptions{
		BaseURL:    cfg.BaseURL,
		SessionKey: cfg.SessionKey,
		Timeout:    cfg.Timeout,
		Logger:     logger,
	})
	configStore := state.NewFileConfigStore(tree, clk, logger)

	return &app{
		cfg:    cfg,
		root:   root,
		engine: engine.New(client, tree, configStore, hash.NewSHA256Hasher(), clk, cfg.OrgID, logger),
		logger: logger,
	}, nil
}

// workspaceRoot resolves and creates the workspace directory.
func workspaceRoot(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("failed to create workspace %s: %w", abs, err)
	}
	return abs, nil
}

// commandContext returns the command's context, canceled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// FormatError formats an error for display by the main package.
func FormatError(err error) string {
	return formatError(err)
}

// outputJSON writes a value as JSON to the command's output.
func outputJSON(cmd *cobra.Command, v interface{}) error {
	return writeJSON(cmd.OutOrStdout(), v)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

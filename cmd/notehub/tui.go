package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aretw0/notehub/internal/platform"
	"github.com/aretw0/notehub/internal/ui"
	notehublifecycle "github.com/aretw0/notehub/pkg/adapters/lifecycle"
)

var logFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse, search, create and delete notes interactively",
	Long: `tui opens a full-screen view of your notes.

Keys: / search, n new note, d delete, ←/→ page, r retry, q quit.
In the create form: tab next field, ←/→ change tag, ctrl+s submit, esc cancel.

When the configuration was loaded from a file, edits to page_size and
debounce are applied while the view is open.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// The screen belongs to bubbletea; logs go to a file or nowhere.
		var out io.Writer = io.Discard
		if logFile != "" {
			f, err := tea.LogToFile(logFile, "notehub")
			if err != nil {
				fatal("Error opening log file", err)
			}
			defer f.Close()
			out = f
		}
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))

		client := openClient()
		defer client.Controller.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		auditMutations(ctx, client)

		var opts []ui.Option
		if client.Config.Path != "" {
			watcher := platform.NewConfigWatcher(client.Config.Path, func() (platform.Config, error) {
				return platform.ResolveConfig(clientOptions(platform.WithConfigFile(client.Config.Path))...)
			}, slog.Default().With("component", "config-watcher"))

			if err := watcher.Start(ctx); err != nil {
				slog.Warn("config hot reload disabled", "error", err)
			} else {
				defer func() {
					stopCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
					defer stop()
					_ = watcher.Stop(stopCtx)
				}()
				opts = append(opts, ui.WithConfigUpdates(watcher.Updates()))
			}
		}

		model := ui.New(ctx, client.Controller, opts...)
		defer model.Close()

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			fatal("Error running TUI", err)
		}
	},
}

// auditMutations logs every successful create and delete made during the session.
func auditMutations(ctx context.Context, client *platform.Client) {
	events, err := client.Service.Watch(ctx)
	if err == nil {
		_, err = notehublifecycle.Audit(ctx, events, slog.Default().With("component", "audit"))
	}
	if err != nil {
		slog.Warn("mutation audit disabled", "error", err)
	}
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the TUI is open")
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notehub/internal/platform"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notehub",
	Short: "A terminal client for the NoteHub notes API",
	Long: `notehub lists, searches, creates and deletes notes stored behind the
NoteHub REST API. The API token is read from NOTEHUB_TOKEN.

Settings can be kept in a notehub.yaml file in the current directory or any
parent directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a notehub.yaml file (default: search upwards from the working directory)")
}

// clientOptions returns the options shared by every command.
func clientOptions(extra ...platform.Option) []platform.Option {
	opts := []platform.Option{platform.WithLogger(slog.Default())}
	if configPath != "" {
		opts = append(opts, platform.WithConfigFile(configPath))
	}
	return append(opts, extra...)
}

func openClient(extra ...platform.Option) *platform.Client {
	client, err := platform.Open(clientOptions(extra...)...)
	if err != nil {
		fatal("Error initializing notehub", err)
	}
	return client
}

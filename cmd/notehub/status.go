package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/notehub"
)

var statusTimeout time.Duration

type statusReport struct {
	Version    string         `json:"version"`
	ConfigPath string         `json:"config_path,omitempty"`
	BaseURL    string         `json:"base_url"`
	PageSize   int            `json:"page_size"`
	Reachable  bool           `json:"reachable"`
	Error      string         `json:"error,omitempty"`
	Components map[string]any `json:"components"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read the first page and print the state of every component as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := openClient()
		defer client.Controller.Close()

		ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
		defer cancel()
		if err := client.Controller.Start(ctx); err != nil {
			fatal("Error starting controller", err)
		}
		client.Controller.Wait()
		snap := client.Controller.Snapshot()

		report := statusReport{
			Version:    notehub.Version,
			ConfigPath: client.Config.Path,
			BaseURL:    client.Config.BaseURL,
			PageSize:   client.Config.PageSize,
			Reachable:  snap.ReadErr == nil,
			Components: make(map[string]any),
		}
		if snap.ReadErr != nil {
			report.Error = snap.ReadErr.Error()
		}

		for _, c := range []any{client.Service, client.Repository, client.Controller} {
			component, ok := c.(introspection.Component)
			if !ok {
				continue
			}
			if in, ok := c.(introspection.Introspectable); ok {
				report.Components[component.ComponentType()] = in.State()
			}
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fatal("Error encoding JSON", err)
		}
		if !report.Reachable {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 10*time.Second, "Maximum time to wait for the first read")
}

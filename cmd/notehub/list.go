package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/notehub/pkg/core"
)

var (
	listJSON    bool
	listPage    int
	listPerPage int
	listSearch  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := openClient()
		defer client.Controller.Close()

		perPage := listPerPage
		if perPage <= 0 {
			perPage = client.Config.PageSize
		}

		res, err := client.Service.ListNotes(context.Background(), core.Query{
			Page:     listPage,
			PageSize: perPage,
			Search:   listSearch,
		})
		if err != nil {
			fatal("Error loading notes", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(res); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		printNotes(os.Stdout, res, listPage)
	},
}

// printNotes writes a plain-text table of res.
func printNotes(w io.Writer, res core.FetchResult, page int) {
	if len(res.Notes) == 0 {
		fmt.Fprintln(w, "No notes found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTAG\tTITLE\tCONTENT")
	for _, n := range res.Notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Tag, n.Title, preview(n.Content, 40))
	}
	_ = tw.Flush()

	if res.TotalPages > 1 {
		if page < 1 {
			page = 1
		}
		fmt.Fprintf(w, "\nPage %d of %d\n", page, res.TotalPages)
	}
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 0, "Notes per page (default: page_size from config)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter notes by search term")
}

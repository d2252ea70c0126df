package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notehub/pkg/core"
)

var (
	createTitle   string
	createContent string
	createTag     string
	createJSON    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Long: `Create validates the note locally (title 3-50 characters, content up to
500 characters, tag one of ` + tagList() + `) and sends it to the API.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		tag, err := core.ParseTag(createTag)
		if err != nil {
			fatal("Invalid tag", err)
		}
		draft := core.Draft{Title: createTitle, Content: createContent, Tag: tag}

		if err := core.ValidateDraft(draft); err != nil {
			var verr *core.ValidationError
			if errors.As(err, &verr) {
				for _, f := range verr.Fields {
					fmt.Fprintf(os.Stderr, "%s: %s\n", f.Field, f.Message)
				}
			}
			os.Exit(1)
		}

		client := openClient()
		defer client.Controller.Close()

		note, err := client.Service.CreateNote(context.Background(), draft)
		if err != nil {
			fatal("Error creating note", err)
		}

		if createJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(note); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		fmt.Printf("Note created: %s\n", note.ID)
	},
}

func tagList() string {
	var names []string
	for _, t := range core.Tags() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "Note title")
	createCmd.Flags().StringVarP(&createContent, "content", "c", "", "Note content")
	createCmd.Flags().StringVar(&createTag, "tag", string(core.TagTodo), "Note tag")
	createCmd.Flags().BoolVar(&createJSON, "json", false, "Output in JSON format")
	_ = createCmd.MarkFlagRequired("title")
}

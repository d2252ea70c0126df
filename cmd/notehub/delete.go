package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notehub/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := core.NoteID(args[0])

		client := openClient()
		defer client.Controller.Close()

		note, err := client.Service.DeleteNote(context.Background(), id)
		if err != nil {
			fatal("Error deleting note", err)
		}

		if note.Title != "" {
			fmt.Printf("Note deleted: %s (%s)\n", note.ID, note.Title)
			return
		}
		fmt.Printf("Note deleted: %s\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

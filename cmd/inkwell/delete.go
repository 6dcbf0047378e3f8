package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/core"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note after asking for confirmation (skip with --yes).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := core.NoteID(args[0])

		nb := openNotebook()
		defer nb.Close()

		ctx := context.Background()
		if err := nb.Notes().Load(ctx); err != nil {
			fatal("Failed to load notes", err)
		}
		note, ok := nb.Notes().Lookup(id)
		if !ok {
			fatal("Failed to delete note", core.ErrNotFound)
		}

		if !deleteYes && !confirm(os.Stdin, fmt.Sprintf("Delete %q?", note.Title)) {
			fmt.Println("Cancelled.")
			return
		}

		if err := nb.Notes().Delete(ctx, id); err != nil {
			fatal("Failed to delete note", err)
		}
		fmt.Printf("Note deleted: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}

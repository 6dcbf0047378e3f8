package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/core"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook()
		defer nb.Close()

		note, err := nb.Notes().Get(context.Background(), core.NoteID(args[0]))
		if err != nil {
			fatal("Failed to read note", err)
		}
		fmt.Printf("# %s\n\n%s\n", note.Title, note.Content)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/core"
)

var (
	editTitle   string
	editContent string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title or content of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := core.NoteID(args[0])
		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("content") {
			fatal("Nothing to edit", fmt.Errorf("pass --title and/or --content"))
		}

		nb := openNotebook()
		defer nb.Close()

		ctx := context.Background()
		if err := nb.Notes().Load(ctx); err != nil {
			fatal("Failed to load notes", err)
		}
		current, ok := nb.Notes().Lookup(id)
		if !ok {
			fatal("Failed to edit note", core.ErrNotFound)
		}

		title, content := current.Title, current.Content
		if cmd.Flags().Changed("title") {
			title = editTitle
		}
		if cmd.Flags().Changed("content") {
			var err error
			if content, err = readContent(editContent); err != nil {
				fatal("Failed to read content", err)
			}
		}

		if _, err := nb.Notes().Update(ctx, id, title, content); err != nil {
			fatal("Failed to update note", err)
		}
		fmt.Printf("Note updated: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", `New body ("-" reads stdin)`)
}

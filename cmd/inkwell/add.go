package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addTitle   string
	addContent string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Long:  `Add creates a note on the service. Pass --content - to read the body from stdin.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		content, err := readContent(addContent)
		if err != nil {
			fatal("Failed to read content", err)
		}

		nb := openNotebook()
		defer nb.Close()

		ctx := context.Background()
		if err := nb.Notes().Load(ctx); err != nil {
			fatal("Failed to load notes", err)
		}
		note, err := nb.Notes().Create(ctx, addTitle, content)
		if err != nil {
			fatal("Failed to create note", err)
		}
		fmt.Printf("Note created: %s\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Note title")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", `Note body ("-" reads stdin)`)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	listSearch string
	listMatch  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	Long: `List loads your notes from the service. --search keeps notes whose title
or content contains the text (case-insensitive); --match keeps notes whose
title matches a glob such as "work/**".`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook()
		defer nb.Close()

		if err := nb.Notes().Load(context.Background()); err != nil {
			fatal("Failed to load notes", err)
		}

		notes, err := nb.Match(listMatch, listSearch)
		if err != nil {
			fatal("Invalid --match pattern", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(notes) == 0 {
			fmt.Println("No notes.")
			return
		}
		for _, note := range notes {
			fmt.Printf("%s\t%s\n", note.ID, note.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by text in title or content")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Filter by title glob")
}

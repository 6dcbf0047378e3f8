package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/session"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local session state without contacting the service",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook()
		defer nb.Close()

		if statusJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(nb.State()); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		state, _ := nb.Session().State().(session.StoreState)
		fmt.Printf("Service:  %s\n", nb.BaseURL())
		fmt.Printf("Session:  %s\n", state.Status)
		if state.Subject != "" {
			fmt.Printf("Subject:  %s\n", state.Subject)
		}
		if state.ExpiresAt != nil {
			note := ""
			if state.ExpiresAt.Before(time.Now()) {
				note = " (expired)"
			}
			fmt.Printf("Expires:  %s%s\n", state.ExpiresAt.Local().Format(time.RFC1123), note)
		}
		if path := nb.SessionFile(); path != "" {
			fmt.Printf("Stored:   %s\n", path)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output the full component state as JSON")
}

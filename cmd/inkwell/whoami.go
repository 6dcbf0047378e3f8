package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the current session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook()
		defer nb.Close()

		profile, err := nb.Session().Profile(context.Background())
		if err != nil {
			fatal("Failed to fetch profile", err)
		}
		fmt.Println(profile.Email)
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

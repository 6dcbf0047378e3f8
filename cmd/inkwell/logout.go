package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell/pkg/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook()
		defer nb.Close()

		if nb.Session().Status() == session.LoggedOut {
			fmt.Println("Not logged in.")
			return
		}
		nb.Session().Logout()
		fmt.Println("Logged out.")
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

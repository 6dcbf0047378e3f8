package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var loginPasswordFile string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to the notes service",
	Long: `Login exchanges your email and password for a session token and stores
it in the session file, so later commands stay logged in.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password, err := readPassword("Password", loginPasswordFile)
		if err != nil {
			fatal("Failed to read password", err)
		}

		nb := openNotebook()
		defer nb.Close()

		if err := nb.Session().Login(context.Background(), email, password); err != nil {
			fatal("Login failed", err)
		}
		fmt.Printf("Logged in as %s\n", email)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginPasswordFile, "password-file", "", `Read the password from a file ("-" prompts)`)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var signupPasswordFile string

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account on the notes service",
	Long: `Signup registers a new account. It does not log you in; run
"inkwell login" afterwards.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password, err := readPassword("Password", signupPasswordFile)
		if err != nil {
			fatal("Failed to read password", err)
		}
		confirmation := password
		if signupPasswordFile == "" || signupPasswordFile == "-" {
			if confirmation, err = readPassword("Confirm password", ""); err != nil {
				fatal("Failed to read password", err)
			}
		}

		nb := openNotebook()
		defer nb.Close()

		if err := nb.Session().Signup(context.Background(), email, password, confirmation); err != nil {
			fatal("Signup failed", err)
		}
		fmt.Printf("Account created for %s. Run `inkwell login %s` to start.\n", email, email)
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupPasswordFile, "password-file", "", `Read the password from a file ("-" prompts)`)
}

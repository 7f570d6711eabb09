// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"aerostack/sdk/internal/httperrors"
)

// whoamiCmd displays the currently authenticated account by validating the
// session with the identity service, falling back to local state offline.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authenticated account",
	Long: `The whoami command displays information about the currently authenticated
account. It validates the current session with the identity service and shows
the account identifier when the session is valid.

If no valid session exists, it indicates that you are not logged in. Useful
for verifying authentication status before running commands that require it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newAuthService()
		if err != nil {
			printNotLoggedIn()
			return nil
		}

		if data, err := svc.GetUserData(cmd.Context()); err == nil && data != nil {
			for _, key := range []string{"email", "account_id", "user_id", "id"} {
				if v, ok := data[key].(string); ok && v != "" {
					fmt.Printf("👤 Current user: %s\n", v)
					return nil
				}
			}
		}

		account, ok, err := svc.WhoAmI(cmd.Context())
		if err != nil {
			return httperrors.FormatNetworkError(err, "checking authentication status")
		}
		if ok {
			fmt.Printf("👤 Current user: %s\n", account)
			return nil
		}

		printNotLoggedIn()
		return nil
	},
}

func printNotLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'aerostack login' to get started.")
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

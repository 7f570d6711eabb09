// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd clears all authentication state. Remote logout is best-effort;
// local credentials are always removed.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove all saved credentials and tokens",
	Long: `The logout command clears all authentication state from the local system,
including access tokens, refresh tokens, and login state. It also attempts to
notify the identity service to invalidate the current session (best-effort).

This command removes:
- Authentication tokens from the OS keychain
- Local login state
- The stored database connection string`,

	RunE: func(cmd *cobra.Command, args []string) error {
		svc, keys, err := newAuthService()
		if err == nil {
			_ = svc.Logout(cmd.Context())
			_ = keys.ClearRemoteDSN()
		}

		fmt.Println("✅ All credentials and tokens have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

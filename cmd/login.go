// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"aerostack/sdk/auth"
	"aerostack/sdk/internal/httperrors"
)

// loginCmd initiates a browser-based device-link authentication flow. The
// user completes login through a web interface while the CLI polls the
// identity service to detect completion.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Authenticate via browser and link this device",
	Long: `The login command initiates a device authentication flow. It generates a login
link that you open in your browser to complete authentication. The command then
polls the identity service to detect when authentication is complete and stores
the resulting tokens in the OS keychain.

The command opens your default browser automatically on Windows, macOS, and
Linux. If you are already logged in with valid credentials, the flow is skipped.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		svc, _, err := newAuthService()
		if err != nil {
			fmt.Println("❌ Secure storage is not available on this system.")
			return err
		}

		// Already logged in with a valid token, short-circuit
		if account, ok, _ := svc.WhoAmI(ctx); ok {
			fmt.Printf("Already logged in as %s\n", account)
			return nil
		}

		authURL, deviceCode, pollEvery, err := svc.StartLogin(ctx)
		if err != nil {
			return httperrors.FormatNetworkError(err, "starting login")
		}
		fmt.Println("Open this link to complete login:")
		fmt.Printf("%s\n\n", authURL)
		openBrowser(authURL)

		stopSpinner := startInlineSpinner(os.Stdout, "Waiting for verification", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)

		if pollEvery <= 0 {
			pollEvery = 3
		}
		ticker := time.NewTicker(time.Duration(pollEvery) * time.Second)
		defer ticker.Stop()

		// Immediate attempt before the first tick
		if account, ok, err := svc.PollLogin(ctx, deviceCode); err == nil && ok {
			finishLogin(ctx, svc, account, stopSpinner)
			return nil
		}
		for {
			select {
			case <-ctx.Done():
				stopSpinner()
				_ = svc.ResetLocalAuth()
				return fmt.Errorf("login timed out; cleaned up")
			case <-ticker.C:
				account, ok, err := svc.PollLogin(ctx, deviceCode)
				if err != nil || !ok {
					continue
				}
				finishLogin(ctx, svc, account, stopSpinner)
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// finishLogin warms the profile cache for offline whoami, clears the spinner
// and greets the user.
func finishLogin(ctx context.Context, svc *auth.Service, account string, stopSpinner func()) {
	_ = svc.WarmCache(ctx)
	stopSpinner()

	if data, err := svc.GetUserData(ctx); err == nil && data != nil {
		if email, ok := data["email"].(string); ok && email != "" {
			fmt.Printf("🎉 Welcome back, %s!\n", email)
			return
		}
	}
	fmt.Printf("🎉 Welcome back, %s!\n", account)
}

// openBrowser attempts to open the provided URL in the user's default
// browser without waiting for the process to finish.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

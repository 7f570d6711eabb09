// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"aerostack/sdk/internal/config"
	"aerostack/sdk/internal/logging"
)

// dbinfoCmd displays the current database configuration: the remote
// connection string with credentials masked, the local database path, and
// the routing rules in evaluation order.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show current database connections and routing rules",
	Long: `The dbinfo command displays the currently configured database connections.
The remote connection string (DSN) is shown with the password masked so you
can verify which database you're connected to without exposing credentials.

It also lists the table routing rules in the order the router evaluates them.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		svc, keys, err := newAuthService()
		if err != nil {
			pterm.Println("❌ Secure storage is not available on this system")
			return err
		}
		if in, err := svc.IsLoggedIn(); err != nil || !in {
			pterm.Println("❌ You need to be logged in to view database connections")
			pterm.Println("   Please run: aerostack login")
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			cfg = config.Defaults()
		}

		remoteDSN, source := resolveRemoteDSN(keys)
		if remoteDSN == "" {
			pterm.Println("⚠️  No remote database connection configured")
			pterm.Println("   Please run: aerostack connect")
		} else {
			pterm.Println("Using DSN from " + source)
			pterm.Println()
			pterm.DefaultBox.
				WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Remote Connection")).
				WithTopPadding(1).
				WithBottomPadding(1).
				WithLeftPadding(1).
				WithRightPadding(1).
				Println(logging.Mask(remoteDSN))
		}
		pterm.Println()

		if path, err := cfg.LocalDBPath(); err == nil && path != "" {
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Local database: ") + path)
		} else {
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Local database: ") + pterm.Gray("disabled"))
		}

		defaultTarget := cfg.DB.DefaultTarget
		if defaultTarget == "" {
			defaultTarget = "remote when configured, local otherwise"
		}
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Default target: ") + defaultTarget)
		pterm.Println()

		if len(cfg.DB.Routes) == 0 {
			pterm.Println(pterm.Gray("No table routing rules configured."))
		} else {
			data := pterm.TableData{{"#", "Table", "Target"}}
			for i, rt := range cfg.DB.Routes {
				data = append(data, []string{pterm.Sprintf("%d", i+1), rt.Table, rt.Target})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		}
		pterm.Println()
		pterm.Println("To update the remote connection, run: aerostack connect")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}

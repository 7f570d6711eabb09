// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface of the Aerostack SDK.
// It implements subcommands for authentication, database connection
// management, and query execution through the router, using the Cobra CLI
// framework with a terminal UI built on pterm.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aerostack/sdk/internal/config"
	"aerostack/sdk/internal/identity"
)

var (
	showVersion bool
)

// rootCmd is the entry point for the aerostack CLI.
var rootCmd = &cobra.Command{
	Use:           "aerostack",
	Short:         "Aerostack CLI for querying across embedded and remote databases",
	Long:          `Aerostack is a command-line tool for the Aerostack platform: it manages your login session, your database connections, and executes SQL through the query router that chooses between the embedded and the remote engine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			ctx := context.Background()

			cfg, err := config.Load()
			if err != nil {
				cfg = config.Defaults()
			}
			api := identity.New(cfg.Identity.BaseURL)
			serverVersion, err := api.GetVersion(ctx)
			if err != nil {
				serverVersion = "unknown"
			}

			fmt.Printf("aerostack %s\nserver %s\n", Version, serverVersion)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and server version information")
}

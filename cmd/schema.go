// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var schemaBinding string

// schemaCmd introspects one engine and prints its tables and columns.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show tables and columns of one database engine",
	Long: `The schema command introspects exactly one engine and prints its user tables
with column names, declared types, nullability, defaults, and primary key
flags (embedded engine only; the remote engine does not report primary keys
through this view).

Select the engine with --binding: a hint containing "sqlite" or "local"
introspects the embedded engine, "postgres" or "remote" the remote one.
Without a hint the configured schema default applies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		router, closeRouter, err := buildRouter(cmd.Context())
		if err != nil {
			return err
		}
		defer closeRouter()

		info, err := router.Schema(cmd.Context(), schemaBinding)
		if err != nil {
			printQueryError(err)
			return err
		}

		pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprintf("Schema: %s engine, %d table(s)", info.Source, len(info.Tables)))
		pterm.Println()

		if len(info.Tables) == 0 {
			pterm.Println(pterm.Gray("(no user tables)"))
			return nil
		}

		for _, table := range info.Tables {
			pterm.Println(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(table.Name))
			data := pterm.TableData{{"Column", "Type", "Nullable", "Default", "PK"}}
			for _, col := range table.Columns {
				nullable := "no"
				if col.Nullable {
					nullable = "yes"
				}
				def := ""
				if col.Default != nil {
					def = *col.Default
				}
				pk := ""
				if col.PrimaryKey {
					pk = "✔"
				}
				data = append(data, []string{col.Name, col.DeclaredType, nullable, def, pk})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&schemaBinding, "binding", "b", "", "Engine hint (sqlite/local or postgres/remote)")
}

// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"aerostack/sdk/db"
)

var batchFile string

// batchCmd executes multiple SQL statements sequentially through the query
// router. Each statement is routed independently; a failure marks its slot
// and the batch continues.
var batchCmd = &cobra.Command{
	Use:   "batch [sql]...",
	Short: "Execute multiple SQL statements through the query router",
	Long: `The batch command runs SQL statements sequentially in input order. Each
statement is routed independently, so one batch can span both engines.
A failing statement does not stop the batch; its error is reported in place
and the remaining statements still run.

Statements come from arguments, or from a file with one statement per
semicolon-terminated block:

  aerostack batch "insert into logs(msg) values('a')" "select count(*) from logs"
  aerostack batch --file migrate.sql`,
	RunE: func(cmd *cobra.Command, args []string) error {
		statements, err := collectStatements(args, batchFile)
		if err != nil {
			return err
		}
		if len(statements) == 0 {
			return errors.New("no SQL statements to execute")
		}

		router, closeRouter, err := buildRouter(cmd.Context())
		if err != nil {
			return err
		}
		defer closeRouter()

		requests := make([]db.Request, len(statements))
		for i, s := range statements {
			requests[i] = db.Request{SQL: s}
		}

		cursor.Hide()
		area, areaErr := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
		if areaErr == nil {
			area.Update(fmt.Sprintf("Executing %d statement(s)...", len(requests)))
		}

		result := router.Batch(cmd.Context(), requests)

		if areaErr == nil {
			_ = area.Stop()
		}
		cursor.Show()

		failed := make(map[int]*db.Error, len(result.Errors))
		for _, be := range result.Errors {
			failed[be.Index] = be.Err
		}

		data := pterm.TableData{{"#", "Status", "Target", "Rows", "Statement"}}
		for i, resp := range result.Results {
			status := pterm.Green("ok")
			rows := fmt.Sprintf("%d", resp.Meta.RowCount)
			if e, bad := failed[i]; bad {
				status = pterm.Red(string(e.Kind))
				rows = "-"
			}
			data = append(data, []string{
				fmt.Sprintf("%d", i+1),
				status,
				string(resp.Meta.Target),
				rows,
				truncateSQL(statements[i], 48),
			})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

		if !result.Success {
			for _, be := range result.Errors {
				pterm.Println(pterm.Red(fmt.Sprintf("statement %d: %s", be.Index+1, be.Err.Message)))
				if be.Err.Hint != "" {
					pterm.Println(pterm.Gray("   hint: " + be.Err.Hint))
				}
			}
			return fmt.Errorf("%d of %d statement(s) failed", len(result.Errors), len(requests))
		}
		pterm.Println(pterm.Green(fmt.Sprintf("✅ %d statement(s) executed", len(requests))))
		return nil
	},
}

// collectStatements merges statements from arguments and an optional file.
// File content is split on semicolons; blank chunks are dropped.
func collectStatements(args []string, file string) ([]string, error) {
	var out []string
	for _, a := range args {
		if s := strings.TrimSpace(a); s != "" {
			out = append(out, s)
		}
	}
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		for _, chunk := range strings.Split(string(content), ";") {
			if s := strings.TrimSpace(chunk); s != "" {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func truncateSQL(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "File with semicolon-separated SQL statements")
}

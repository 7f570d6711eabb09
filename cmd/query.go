// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"aerostack/sdk/db"
)

var queryParams []string

// queryCmd executes one SQL statement through the query router and prints
// the result. The router decides which engine runs it; an inline
// aerostack:target directive in the statement overrides everything else.
var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Execute a SQL statement through the query router",
	Long: `The query command runs a single SQL statement through the query router, which
selects the embedded or the remote engine based on inline directives, table
routing rules, statement complexity, and the configured default.

Bind parameters are passed positionally with repeated --param flags:

  aerostack query "select * from users where id = ?" --param 42

Force a target with an inline directive inside a SQL comment:

  aerostack query "/* aerostack:target=local */ select count(*) from sessions"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sql := strings.TrimSpace(args[0])
		if sql == "" {
			return errors.New("SQL statement is required")
		}

		router, closeRouter, err := buildRouter(cmd.Context())
		if err != nil {
			return err
		}
		defer closeRouter()

		params := make([]any, len(queryParams))
		for i, p := range queryParams {
			params[i] = p
		}

		resp, err := router.Query(cmd.Context(), sql, params...)
		if err != nil {
			printQueryError(err)
			return err
		}

		renderRows(resp.Rows)
		renderMeta(resp.Meta)
		return nil
	},
}

// printQueryError shows the taxonomy kind and remediation hint when present.
func printQueryError(err error) {
	var qerr *db.Error
	if errors.As(err, &qerr) {
		pterm.Println(pterm.Red(fmt.Sprintf("❌ %s", qerr.Message)))
		if qerr.Hint != "" {
			pterm.Println(pterm.Gray("   hint: " + qerr.Hint))
		}
		return
	}
	pterm.Println(pterm.Red("❌ " + err.Error()))
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "Positional bind parameter (repeatable)")
}

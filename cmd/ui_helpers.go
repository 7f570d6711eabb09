// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"aerostack/sdk/db"
)

// startInlineSpinner starts a single-line spinner animation and returns a
// function that stops it and clears the line. Windows-friendly: plain frames,
// no cursor addressing beyond carriage return.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				if len(line) > 2000 {
					line = line[:2000]
				}
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

// renderRows prints result rows as a table. Column order is alphabetical so
// output is stable across runs.
func renderRows(rows []db.Row) {
	if len(rows) == 0 {
		pterm.Println(pterm.Gray("(no rows)"))
		return
	}

	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	data := pterm.TableData{cols}
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			v := row[c]
			if v == nil {
				line[i] = "NULL"
				continue
			}
			line[i] = fmt.Sprintf("%v", v)
		}
		data = append(data, line)
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// renderMeta prints the execution metadata under a result table.
func renderMeta(meta db.Meta) {
	pterm.Println(pterm.Gray(fmt.Sprintf("%d row(s) via %s in %s", meta.RowCount, meta.Target, meta.Duration.Round(time.Microsecond))))
}

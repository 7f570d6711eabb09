// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides small terminal manipulation utilities.
package terminal

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"
)

// ClearPreviousLines clears previously printed text from the terminal. It
// computes how many screen lines the text occupied from the current terminal
// width, then moves up and erases each one with ANSI escape sequences.
//
// Used to remove credential prompts from the scrollback after the user has
// entered them. textLength is prompt plus input; one extra line is cleared
// for the newline the Enter key produced.
func ClearPreviousLines(textLength int) {
	termWidth := 80
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	totalLines := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if totalLines < 1 {
		totalLines = 1
	}
	linesToClear := totalLines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A")
		}
	}
}

// Package main is the entry point for the Aerostack CLI application.
// It exposes the SDK's query router, authentication, and connection
// management through a command-line interface.
package main

import (
	"aerostack/sdk/cmd"
)

func main() {
	cmd.Execute()
}

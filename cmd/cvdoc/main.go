// Package main provides the entry point for the CV document engine server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvdoc",
	Short: "CV document engine HTTP API server",
	Long:  "cvdoc normalizes raw CV sources into editable two-column documents and serves a REST API with undo/redo, checkpoints, and AI rewrite suggestions.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

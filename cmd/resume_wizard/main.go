// Package main provides the entry point for the Resume Wizard API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_wizard",
	Short: "Resume Wizard draft generation service",
	Long:  "Resume Wizard turns raw wizard answers into structured, schema-validated resume sections and persists them per draft via REST API or the local CLI.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main provides the entry point for the applicant tracker server
// and its maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ats",
	Short: "Applicant tracking service",
	Long:  "ats receives job application submissions from third-party form systems, manages their status workflow and notifications, and exports them as CSV.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

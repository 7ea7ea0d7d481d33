package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hiringdesk/applicant-tracker/internal/config"
)

var hashCost int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Hash an admin password for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost")
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	hash, err := config.HashPassword(args[0], hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	cmd.Println(hash)
	return nil
}

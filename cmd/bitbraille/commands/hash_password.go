package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bitbraille/internal/config"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password PASSWORD",
	Short: "Print the bcrypt hash of a password",
	Long: `Print the bcrypt hash of a password, for the password_hash field of a
user in the configuration file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.HashPassword(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

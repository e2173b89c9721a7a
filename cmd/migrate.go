package cmd

import (
	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := connect(); err != nil {
			return err
		}
		defer initializers.CloseDB()
		return initializers.SyncDatabase()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

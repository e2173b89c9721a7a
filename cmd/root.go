package cmd

import (
	"fmt"
	"os"

	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookstore-api",
	Short: "Bookstore and library API",
	Long:  "Serves the bookstore API and runs its maintenance tasks: migrations, seeding and health checks.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initializers.LoadEnv()
		initializers.InitLogger()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect loads configuration and opens the database.
func connect() (*initializers.Config, error) {
	cfg, err := initializers.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := initializers.ConnectToDB(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

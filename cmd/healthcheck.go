package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/spf13/cobra"
)

// healthcheck exits 1 when a dependency is down, for container HEALTHCHECK use.
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check the database and redis and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := connect()
		if err != nil {
			return err
		}
		defer initializers.CloseDB()

		redisErr := initializers.ConnectToRedis(cmd.Context(), cfg)
		defer initializers.CloseRedis()

		result := services.NewHealthService(initializers.DB, initializers.Redis, initializers.Logger).Check(cmd.Context())
		if redisErr != nil {
			result.Status = services.StatusUnhealthy
			result.Redis = "unreachable"
			if result.Details == nil {
				result.Details = map[string]string{}
			}
			result.Details["redis_error"] = redisErr.Error()
		}
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal health check result: %w", err)
		}
		fmt.Println(string(output))

		if !result.Healthy() {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/restaurant-api/internal/config"
	"github.com/example/restaurant-api/internal/persistence/sqlite"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer pool.Close()

			return sqlite.Migrate(context.Background(), pool)
		},
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/restaurant-api/internal/application"
	"github.com/example/restaurant-api/internal/config"
	"github.com/example/restaurant-api/internal/persistence"
	"github.com/example/restaurant-api/internal/persistence/sqlite"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage back-office accounts",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var email, password, name string
	var admin bool

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a back-office account (email/password)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer pool.Close()

			if err := sqlite.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			hash, err := application.CreatePasswordHash(password, application.DefaultArgon2idParams)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			user := persistence.User{
				ID:           uuid.NewString(),
				Email:        email,
				DisplayName:  name,
				PasswordHash: hash,
				IsAdmin:      admin,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := sqlite.NewUserRepository(pool).CreateUser(ctx, user); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created user %q\n", email)
			return nil
		},
	}

	c.Flags().StringVar(&email, "email", "", "login email address")
	c.Flags().StringVar(&password, "password", "", "initial password")
	c.Flags().StringVar(&name, "name", "", "display name")
	c.Flags().BoolVar(&admin, "admin", true, "grant back-office admin access")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	return c
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"homehub/internal/app"
	"homehub/internal/config"
	"homehub/internal/database"
	"homehub/internal/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init("homehubctl")

	rootCmd := &cobra.Command{
		Use:          "homehubctl",
		Short:        "Operational commands for the homehub service",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		sweepLeasesCmd(),
		pruneNotificationsCmd(),
		promoteAdminCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// open loads the configuration and connects to the migrated database.
func open() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := app.Migrate(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := open(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts and listings into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := open()
			if err != nil {
				return err
			}
			res, err := app.Seed(cmd.Context(), db)
			if err != nil {
				return err
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "database not empty, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users and %d properties\n", res.Users, res.Properties)
			return nil
		},
	}
}

func sweepLeasesCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "sweep-leases",
		Short: "End active leases whose end date has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t.UTC()
			}

			cfg, db, err := open()
			if err != nil {
				return err
			}
			res, err := app.New(cfg, db, nil).Leases.SweepExpired(cmd.Context(), now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ended %d leases, %d failed\n", res.Ended, res.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "sweep as of this RFC3339 time instead of now")
	return cmd
}

func pruneNotificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune-notifications",
		Short: "Delete read notifications older than NOTIFICATION_RETENTION",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := open()
			if err != nil {
				return err
			}
			deleted, err := app.New(cfg, db, nil).Cleanup.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d notifications\n", deleted)
			return nil
		},
	}
}

func promoteAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant the admin role to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := open()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			u, err := app.New(cfg, db, nil).Auth.PromoteToAdmin(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) is now an admin\n", u.ID, u.Email)
			return nil
		},
	}
}

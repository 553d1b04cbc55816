package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"walkydoggy/internal/marketplace/adapters/mongo"
	mongodb "walkydoggy/pkg/db/mongo"
	"walkydoggy/pkg/db/postgres"
	"walkydoggy/pkg/logger"
)

const (
	LogSchemaVersion  = "accounts schema version"
	LogIndexesEnsured = "marketplace indexes ensured"
	LogIndexesDropped = "marketplace indexes dropped"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage accounts schema and marketplace indexes",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending accounts migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			return postgres.MigrateUp(cmd.Context(), cfg.Postgres.GetConnectionURL(), cfg.Postgres.MigrationsDir)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Revert accounts migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid steps %q: must be a positive integer", args[0])
				}
				steps = n
			}

			cfg, err := loadConfig(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			return postgres.MigrateDown(cmd.Context(), cfg.Postgres.GetConnectionURL(), cfg.Postgres.MigrationsDir, steps)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current accounts schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationVersion(ctx, cfg.Postgres.GetConnectionURL(), cfg.Postgres.MigrationsDir)
			if err != nil {
				return err
			}
			logger.Log(ctx).Info(ctx, LogSchemaVersion, zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		},
	})

	var drop bool
	indexesCmd := &cobra.Command{
		Use:   "indexes",
		Short: "Create marketplace MongoDB indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}

			database, err := mongodb.New(ctx, mongodb.Options{
				URI:            cfg.Mongo.URI,
				Database:       cfg.Mongo.Database,
				ConnectTimeout: cfg.Mongo.ConnectTimeout,
			})
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(ctx) }()

			if drop {
				if err := mongo.DropIndexes(ctx, database.DB()); err != nil {
					return err
				}
				logger.Log(ctx).Info(ctx, LogIndexesDropped)
				return nil
			}
			if err := mongo.EnsureIndexes(ctx, database.DB()); err != nil {
				return err
			}
			logger.Log(ctx).Info(ctx, LogIndexesEnsured)
			return nil
		},
	}
	indexesCmd.Flags().BoolVar(&drop, "drop", false, "drop marketplace indexes instead of creating them")
	migrateCmd.AddCommand(indexesCmd)

	return migrateCmd
}

package main

import (
	"context"
	"fmt"

	migrations "toolrent/internal/migrations/mongo"
	"toolrent/pkg/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create collections, schema validators and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load("toolrentctl")
			cfg.SetMongo()
			defer cfg.GracefulShutdown()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.MongoConnTimeout*6)
			defer cancel()

			if err := migrations.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated database %s\n", cfg.MongoDatabaseName)
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"perf-tester/internal/infra"
	"perf-tester/internal/infrastructure/repository/sqlstore"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = infra.NewCorrelationID(ctx)
			out := cmd.OutOrStdout()

			cfg, err := provideConfig()
			if err != nil {
				return err
			}
			logger := provideLogger(cmd.ErrOrStderr(), "migrate", cfg)

			if cfg.Database.Driver == driverMemory {
				fmt.Fprintln(out, "The memory store has no schema, nothing to migrate.")
				return nil
			}

			if sqlstore.ShouldCheckDatabase(cfg.Database) {
				waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				err := sqlstore.WaitForDatabase(waitCtx, cfg.Database, logger)
				cancel()
				if err != nil {
					return err
				}
			}

			dsn, err := sqlstore.BuildDSN(cfg.Database)
			if err != nil {
				return err
			}
			store, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.Database.Driver, DSN: dsn, SkipMigrations: true})
			if err != nil {
				return err
			}
			defer store.Close()

			applied, err := store.Migrate(ctx)
			if err != nil {
				return err
			}
			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Applied migrations: %s\n", formatVersions(applied))
			fmt.Fprintf(out, "Schema version: %d\n", version)
			return nil
		},
	}
}

func formatVersions(versions []int64) string {
	if len(versions) == 0 {
		return "none"
	}
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ", ")
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"smartShop/business/seed"
	psqlRepo "smartShop/internal/repository/postgres"
	redisRepo "smartShop/internal/repository/redis"
	"smartShop/pkg/config"
	"smartShop/pkg/database"
	redisClient "smartShop/pkg/database/redis"
	"smartShop/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seeder",
		Short:         "Catalog maintenance for the Smart Shop API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCmd())
	return root
}

func newSeedCmd() *cobra.Command {
	var (
		dataDir string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the catalog CSV files into the database",
		Long: `Seed reads products.csv, reviews.csv and store_policies.csv (required) plus
users.csv and user_events.csv (optional) from the data directory.

Without --force the catalog is only loaded when it is empty. With --force every
catalog table is wiped and reloaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(cfg.App.Environment)
			defer logger.Sync()

			if dataDir == "" {
				dataDir = cfg.Seed.DataDir
			}

			db, err := database.InitPostgres(cfg)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}

			var cache seed.SummaryCache
			if cfg.Redis.Enabled {
				client, err := redisClient.NewRedisClient(cfg.Redis)
				if err != nil {
					logger.Warn("redis unavailable, review summary cache not flushed", "error", err)
				} else {
					defer redisClient.CloseRedisClient(client)
					cache = redisRepo.NewSummaryRepository(client, cfg.Redis.SummaryCacheTTL)
				}
			}

			seeder := seed.NewSeedService(
				psqlRepo.NewCatalogRepository(db),
				psqlRepo.NewProductRepository(db),
				psqlRepo.NewUserRepository(db),
				cache,
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			if force {
				if err := seeder.Seed(ctx, dataDir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "catalog reloaded from %s\n", dataDir)
				return nil
			}

			seeded, err := seeder.SeedIfNeeded(ctx, dataDir)
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "catalog seeded from %s\n", dataDir)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog already populated, nothing to do (use --force to reload)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory holding the seed CSV files (default SMART_SHOP_DATA_DIR)")
	cmd.Flags().BoolVar(&force, "force", false, "wipe and reload the catalog even when it is populated")
	return cmd
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sprayshop/internal/app"
	"github.com/dmitrymomot/sprayshop/pkg/catalog"
	"github.com/dmitrymomot/sprayshop/pkg/mongo"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load products from a YAML file into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			products, err := catalog.LoadSeed(f)
			if err != nil {
				return err
			}

			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			log := app.NewLogger(cfg)

			ctx := cmd.Context()
			db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
			if err != nil {
				return err
			}
			defer func() { _ = db.Client().Disconnect(ctx) }()

			store := catalog.NewMongoStore(db)
			if err := store.EnsureIndexes(ctx); err != nil {
				return err
			}

			created, err := catalog.Seed(ctx, store, products)
			if err != nil {
				return err
			}
			log.InfoContext(ctx, "catalog seeded", slog.Int("created", created), slog.Int("skipped", len(products)-created))
			fmt.Fprintf(cmd.OutOrStdout(), "%d products created, %d already present\n", created, len(products)-created)
			return nil
		},
	}
}

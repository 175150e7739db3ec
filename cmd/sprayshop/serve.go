package main

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sprayshop/internal/app"
	"github.com/dmitrymomot/sprayshop/pkg/httpserver"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
	"github.com/dmitrymomot/sprayshop/pkg/mongo"
	"github.com/dmitrymomot/sprayshop/pkg/redis"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	log := app.NewLogger(cfg)
	logger.SetAsDefault(log)

	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(dctx); err != nil {
			log.Error("failed to disconnect from mongo", logger.Error(err))
		}
	}()

	var rdb goredis.UniversalClient
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
	} else {
		log.InfoContext(ctx, "REDIS_URL not set, keeping session snapshot in memory")
	}

	a, err := app.New(ctx, cfg, db, rdb, log)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Manager.Initialize(ctx)

	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, a.Handler)
}

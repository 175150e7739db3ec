// Package redis connects the storefront to Redis, which backs the session
// snapshot cache when REDIS_URL is configured.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	rdb, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer rdb.Close()
//
//	cache := authstate.NewRedisCache(rdb, time.Hour)
//
// Connect retries RetryAttempts times, RetryInterval apart, within
// ConnectTimeout. Healthcheck returns a probe suitable for readiness checks.
package redis

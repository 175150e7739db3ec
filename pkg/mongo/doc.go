// Package mongo manages the MongoDB connection that backs the storefront's
// document stores: user profiles, accounts, carts, products, orders and
// messages.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	profiles := profile.NewMongoStore(db)
//
// New retries the connection RetryAttempts times and verifies it with a ping.
// Healthcheck returns a probe for readiness endpoints. Errors wrap
// ErrConnect and ErrHealthcheckFailed for errors.Is checks.
package mongo

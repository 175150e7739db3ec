// Package mongotest opens a throwaway database for integration tests.
// Tests are skipped unless MONGODB_TEST_URL points at a reachable server.
package mongotest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	mongoconn "github.com/dmitrymomot/sprayshop/pkg/mongo"
)

// EnvURL names the variable holding the test server URL.
const EnvURL = "MONGODB_TEST_URL"

// Database returns a uniquely named database that is dropped on cleanup.
func Database(t testing.TB) *mongo.Database {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s is not set", EnvURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := mongoconn.NewWithDatabase(ctx, mongoconn.Config{
		ConnectionURL:  url,
		Database:       fmt.Sprintf("sprayshop_test_%s", uuid.NewString()[:8]),
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    4,
		RetryAttempts:  1,
	})
	if err != nil {
		t.Fatalf("connect to test mongo: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = db.Client().Disconnect(ctx)
	})
	return db
}

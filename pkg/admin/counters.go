package admin

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	mongoconn "github.com/dmitrymomot/sprayshop/pkg/mongo"
)

// PendingStatuses are the message statuses counted as awaiting a reply.
var PendingStatuses = []string{"pending", "pendiente"}

// Counters reports the order and message totals shown on the dashboard.
type Counters interface {
	CountOrders(ctx context.Context) (int64, error)
	CountPendingMessages(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)
}

// MongoCounters counts documents in the orders and messages collections.
type MongoCounters struct {
	orders   *mongo.Collection
	messages *mongo.Collection
}

func NewMongoCounters(db *mongo.Database) *MongoCounters {
	return &MongoCounters{
		orders:   db.Collection(mongoconn.CollectionOrders),
		messages: db.Collection(mongoconn.CollectionMessages),
	}
}

func (c *MongoCounters) CountOrders(ctx context.Context) (int64, error) {
	return c.orders.CountDocuments(ctx, bson.M{})
}

func (c *MongoCounters) CountPendingMessages(ctx context.Context) (int64, error) {
	return c.messages.CountDocuments(ctx, bson.M{"status": bson.M{"$in": PendingStatuses}})
}

func (c *MongoCounters) CountMessages(ctx context.Context) (int64, error) {
	return c.messages.CountDocuments(ctx, bson.M{})
}

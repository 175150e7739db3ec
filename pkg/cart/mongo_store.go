package cart

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongoconn "github.com/dmitrymomot/sprayshop/pkg/mongo"
)

// MongoStore keeps one document per user in the carts collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(mongoconn.CollectionCarts)}
}

func (s *MongoStore) Load(ctx context.Context, userID string) (Cart, error) {
	var c Cart
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Cart{UserID: userID}, nil
	}
	if err != nil {
		return Cart{}, errors.Join(ErrStoreFailure, err)
	}
	return c, nil
}

func (s *MongoStore) Save(ctx context.Context, c Cart) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.UserID}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongoconn "github.com/dmitrymomot/sprayshop/pkg/mongo"
)

// MongoStore keeps products in the products collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(mongoconn.CollectionProducts)}
}

// EnsureIndexes creates the name index used for ordering.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]Product, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	products := []Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return products, nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &p, nil
}

func (s *MongoStore) CreateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	_, err := s.coll.InsertOne(ctx, p)
	if mongoconn.IsDuplicateKey(err) {
		return ErrProductExists
	}
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) CountProducts(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}
	return n, nil
}

package profile

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	mongoconn "github.com/dmitrymomot/sprayshop/pkg/mongo"
)

type record struct {
	ID        string    `bson:"_id"`
	FullName  string    `bson:"full_name,omitempty"`
	Email     string    `bson:"email,omitempty"`
	Role      string    `bson:"role,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r record) profile() authstate.Profile {
	return authstate.Profile{
		ID:        r.ID,
		FullName:  r.FullName,
		Email:     r.Email,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
	}
}

// MongoStore keeps profiles in the users collection, keyed by identity id.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore returns a store backed by db's users collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		coll: db.Collection(mongoconn.CollectionUsers),
		now:  time.Now,
	}
}

func (s *MongoStore) GetProfile(ctx context.Context, id string) (*authstate.Profile, error) {
	var r record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, authstate.ErrProfileNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	p := r.profile()
	return &p, nil
}

func (s *MongoStore) CreateProfile(ctx context.Context, p authstate.Profile) error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}

	_, err := s.coll.InsertOne(ctx, record{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt.UTC(),
	})
	if mongoconn.IsDuplicateKey(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) SetRole(ctx context.Context, id string, role authstate.Role) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": string(role)}})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return authstate.ErrProfileNotFound
	}
	return nil
}

// ListProfiles returns all profiles, newest first.
func (s *MongoStore) ListProfiles(ctx context.Context) ([]authstate.Profile, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var records []record
	if err := cur.All(ctx, &records); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	list := make([]authstate.Profile, 0, len(records))
	for _, r := range records {
		list = append(list, r.profile())
	}
	return list, nil
}

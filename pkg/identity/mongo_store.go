package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongoconn "github.com/dmitrymomot/sprayshop/pkg/mongo"
)

type accountDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	FullName     string    `bson:"full_name,omitempty"`
	PasswordHash []byte    `bson:"password_hash,omitempty"`
	GoogleID     string    `bson:"google_id,omitempty"`
	Disabled     bool      `bson:"disabled"`
	CreatedAt    time.Time `bson:"created_at"`
}

// MongoAccountStore keeps accounts in the accounts collection.
type MongoAccountStore struct {
	coll *mongo.Collection
}

func NewMongoAccountStore(db *mongo.Database) *MongoAccountStore {
	return &MongoAccountStore{coll: db.Collection(mongoconn.CollectionAccounts)}
}

// EnsureIndexes creates the unique email and sparse unique google_id indexes.
func (s *MongoAccountStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

func (s *MongoAccountStore) CreateAccount(ctx context.Context, a *Account) error {
	_, err := s.coll.InsertOne(ctx, accountDoc{
		ID:           a.ID,
		Email:        a.Email,
		FullName:     a.FullName,
		PasswordHash: a.PasswordHash,
		GoogleID:     a.GoogleID,
		Disabled:     a.Disabled,
		CreatedAt:    a.CreatedAt.UTC(),
	})
	if mongoconn.IsDuplicateKey(err) {
		return ErrEmailInUse
	}
	if err != nil {
		return errors.Join(ErrNetwork, err)
	}
	return nil
}

func (s *MongoAccountStore) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoAccountStore) AccountByGoogleID(ctx context.Context, googleID string) (*Account, error) {
	return s.findOne(ctx, bson.M{"google_id": googleID})
}

func (s *MongoAccountStore) findOne(ctx context.Context, filter bson.M) (*Account, error) {
	var doc accountDoc
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrNetwork, err)
	}
	return &Account{
		ID:           doc.ID,
		Email:        doc.Email,
		FullName:     doc.FullName,
		PasswordHash: doc.PasswordHash,
		GoogleID:     doc.GoogleID,
		Disabled:     doc.Disabled,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// MongoConfig configures [MongoStore].
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// MongoStore keeps one document per key, with the key as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "blockgrid"
	}
	if cfg.Collection == "" {
		cfg.Collection = "kv"
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongo at %s", cfg.URI)
	}
	err = RetryWithBackoff(ctx, func() error {
		return retryableMongo(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo at %s", cfg.URI)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a value.
func (s *MongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		doc   kvDocument
		found bool
	)
	err := RetryWithBackoff(ctx, func() error {
		err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return nil
		}
		if err != nil {
			return retryableMongo(err)
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, storeErr(err, "find", key)
	}
	return doc.Value, found, nil
}

// Set upserts a value.
func (s *MongoStore) Set(ctx context.Context, key, value string) error {
	err := RetryWithBackoff(ctx, func() error {
		_, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": key},
			bson.M{"$set": bson.M{"value": value, "updated_at": time.Now().UTC()}},
			options.Update().SetUpsert(true))
		return retryableMongo(err)
	})
	return storeErr(err, "upsert", key)
}

// Delete removes a value.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	err := RetryWithBackoff(ctx, func() error {
		_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
		return retryableMongo(err)
	})
	return storeErr(err, "delete", key)
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func retryableMongo(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Retryable(err)
	}
	return err
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)

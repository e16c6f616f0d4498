package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingsCollection = "settings"

// MongoStore keeps each entity as one document of the settings
// collection, keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type settingsDocument struct {
	Key       string    `bson:"_id"`
	Value     any       `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// OpenMongo connects to uri and pings the server before returning.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(settingsCollection),
	}, nil
}

// Save replaces the document stored under key.
func (s *MongoStore) Save(ctx context.Context, key string, entity any) error {
	doc := settingsDocument{Key: key, Value: entity, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc, opts); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Load decodes the entity stored under key into out.
func (s *MongoStore) Load(ctx context.Context, key string, out any) error {
	var raw struct {
		Value bson.RawValue `bson:"value"`
	}
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	if err := raw.Value.Unmarshal(out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

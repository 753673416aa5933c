package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoKV keeps each value as opaque binary in {_id: key, value: <bytes>} so the
// stored bytes come back unchanged.
type MongoKV struct {
	client *mongo.Client
	col    *mongo.Collection
}

type mongoEntry struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"value"`
}

func NewMongoKV(client *mongo.Client, col *mongo.Collection) *MongoKV {
	return &MongoKV{client: client, col: col}
}

func (m *MongoKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": key}, mongoEntry{Key: key, Value: value}, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoKV) Get(ctx context.Context, key string) ([]byte, error) {
	var e mongoEntry
	if err := m.col.FindOne(ctx, bson.M{"_id": key}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e.Value, nil
}

func (m *MongoKV) Del(ctx context.Context, key string) (int64, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoKV) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

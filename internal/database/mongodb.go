package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and pings it within timeout. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// OpenCollection connects and returns the named collection together with its client.
func OpenCollection(ctx context.Context, uri, db, collection string, timeout time.Duration) (*mongo.Client, *mongo.Collection, error) {
	if db == "" || collection == "" {
		return nil, nil, fmt.Errorf("mongo: database and collection are required")
	}
	client, err := ConnectMongo(ctx, uri, timeout)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(db).Collection(collection), nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectOptions tunes the Mongo client pool per deployment. Zero
// values fall back to defaults sized for a single API instance.
type ConnectOptions struct {
	MaxPoolSize      uint64
	MinPoolSize      uint64
	ConnectTimeout   time.Duration
	SelectionTimeout time.Duration
}

const (
	defaultMaxPoolSize      = 50
	defaultMinPoolSize      = 5
	defaultConnectTimeout   = 10 * time.Second
	defaultSelectionTimeout = 5 * time.Second
)

func (o ConnectOptions) withDefaults() ConnectOptions {
	if o.MaxPoolSize == 0 {
		o.MaxPoolSize = defaultMaxPoolSize
	}
	if o.MinPoolSize == 0 {
		o.MinPoolSize = defaultMinPoolSize
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = defaultConnectTimeout
	}
	if o.SelectionTimeout <= 0 {
		o.SelectionTimeout = defaultSelectionTimeout
	}
	return o
}

// ConnectMongoDB opens a pooled client and returns a handle on the
// named database. A reachable primary is a startup requirement, so the
// connection is verified here instead of on the first query.
func ConnectMongoDB(ctx context.Context, uri, database string, opts ConnectOptions) (*mongo.Database, error) {
	opts = opts.withDefaults()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerSelectionTimeout(opts.SelectionTimeout).
		SetMaxPoolSize(opts.MaxPoolSize).
		SetMinPoolSize(opts.MinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client.Database(database), nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"photoshare/pkg/logging"
)

// Config holds document store connection settings
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// DefaultConfig returns default connection settings
func DefaultConfig() Config {
	return Config{
		Database:       "photoshare",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    50,
	}
}

func (c Config) clientOptions() (*options.ClientOptions, error) {
	if c.URI == "" {
		return nil, fmt.Errorf("database URI is required")
	}
	if c.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}
	opts := options.Client().ApplyURI(c.URI)
	if c.ConnectTimeout > 0 {
		opts.SetConnectTimeout(c.ConnectTimeout).SetServerSelectionTimeout(c.ConnectTimeout)
	}
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MaxPoolSize)
	}
	return opts, nil
}

// Connect opens a client, pings the primary and returns the configured database.
func Connect(ctx context.Context, cfg Config, logger logging.Logger) (*mongo.Database, error) {
	opts, err := cfg.clientOptions()
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithFields(logging.Fields{
		"database":      cfg.Database,
		"max_pool_size": cfg.MaxPoolSize,
	}).Info("Database connected")

	return client.Database(cfg.Database), nil
}

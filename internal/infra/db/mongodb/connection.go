package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"stock-lookup-bot/internal/config"
	"stock-lookup-bot/internal/domain"
	"stock-lookup-bot/internal/infra/metrics"
)

// Connect dials MongoDB and pings the primary, retrying a bounded number of times
// with a fixed backoff. Exhausting the retries yields domain.ErrStartup.
func Connect(ctx context.Context, cfg config.MongoConfig, log *zerolog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)

	var client *mongo.Client
	err := retry(ctx, cfg.ConnectRetries, cfg.RetryBackoff, func(ctx context.Context) error {
		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	}, func(attempt int, err error) {
		metrics.IncStoreConnectAttempt(false)
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", cfg.ConnectRetries).Msg("mongo connection attempt failed")
	})
	if err != nil {
		return nil, fmt.Errorf("%w: mongo: %w", domain.ErrStartup, err)
	}
	metrics.IncStoreConnectAttempt(true)
	metrics.SetStoreUp(true)
	log.Info().Msg("connected to MongoDB")
	return client, nil
}

// retry runs fn up to attempts times with a constant backoff between failures.
// onFail sees every failed attempt, including the last one.
func retry(ctx context.Context, attempts int, wait time.Duration, fn func(context.Context) error, onFail func(int, error)) error {
	if attempts <= 0 {
		attempts = 1
	}
	attempt := 0
	op := func() error {
		attempt++
		err := fn(ctx)
		if err != nil && onFail != nil {
			onFail(attempt, err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(wait), uint64(attempts-1)), ctx)
	if err := backoff.RetryNotify(op, policy, nil); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("unreachable after %d attempts: %w", attempt, err)
	}
	return nil
}

// CollectionNames lists the collections of db; used for the startup log.
func CollectionNames(ctx context.Context, db *mongo.Database) ([]string, error) {
	return db.ListCollectionNames(ctx, bson.D{})
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sangsom/minime/internal/persist"
)

// Config holds Redis connection and key settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Key is the Redis key holding the profile document
	Key string

	// Pool settings
	PoolSize     int
	MinIdleConns int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Key:          "minime:profiles",
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// Backend stores the profile document under a single Redis key. The
// SET replaces the value atomically, giving the same complete-version
// guarantee as the file backend's rename.
type Backend struct {
	client *redis.Client
	cfg    Config
}

// New creates a Redis backend and verifies the connection
func New(cfg Config) (*Backend, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Backend{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis backend with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Backend {
	return &Backend{client: client, cfg: cfg}
}

// Ensure Backend implements the interface
var _ persist.Backend = (*Backend)(nil)

// Close closes the Redis connection
func (b *Backend) Close() error {
	return b.client.Close()
}

func (b *Backend) WriteSnapshot(ctx context.Context, data []byte) error {
	return b.client.Set(ctx, b.cfg.Key, data, 0).Err()
}

func (b *Backend) ReadSnapshot(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.cfg.Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persist.ErrNoSnapshot
		}
		return nil, err
	}
	return data, nil
}

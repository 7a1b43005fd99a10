package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another run holds the lock for a root folder.
var ErrLockHeld = errors.New("run lock held by another process")

// ErrLockLost is returned when a refresh finds the lock expired or taken over.
var ErrLockLost = errors.New("run lock no longer owned")

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the lock TTL only if it still carries our token.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Client wraps Redis operations for run coordination.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration.
// An empty URL disables run locking.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewFromRedis wraps an existing go-redis client.
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func lockKey(rootFolder string) string {
	return fmt.Sprintf("glossary:lock:%s", rootFolder)
}

// AcquireLock takes the run lock for rootFolder, storing token as owner.
// It returns ErrLockHeld when another owner holds it.
func (c *Client) AcquireLock(ctx context.Context, rootFolder, token string, ttl time.Duration) error {
	ok, err := c.rdb.SetNX(ctx, lockKey(rootFolder), token, ttl).Result()
	if err != nil {
		return fmt.Errorf("setnx failed: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// RefreshLock extends the TTL of the lock if token still owns it.
// It returns ErrLockLost otherwise.
func (c *Client) RefreshLock(ctx context.Context, rootFolder, token string, ttl time.Duration) error {
	n, err := refreshScript.Run(ctx, c.rdb, []string{lockKey(rootFolder)}, token, ttl.Milliseconds()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("refresh lock failed: %w", err)
	}
	if n == 0 {
		return ErrLockLost
	}
	return nil
}

// ReleaseLock releases the lock if token still owns it.
func (c *Client) ReleaseLock(ctx context.Context, rootFolder, token string) error {
	if err := releaseScript.Run(ctx, c.rdb, []string{lockKey(rootFolder)}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock failed: %w", err)
	}
	return nil
}

// LockOwner returns the token holding the lock, or "" if it is free.
func (c *Client) LockOwner(ctx context.Context, rootFolder string) (string, error) {
	val, err := c.rdb.Get(ctx, lockKey(rootFolder)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get failed: %w", err)
	}
	return val, nil
}

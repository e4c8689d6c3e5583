// Package checkout persists the id of the payment checkout session between the
// moment the user leaves for the payment page and the moment they come back.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"studyhub/internal/config"
)

// Key is the fixed name the session id is stored under.
const Key = "checkout_session_id"

// Store holds at most one checkout session id.
type Store interface {
	Save(ctx context.Context, sessionID string) error
	// Get returns the stored id; found is false when nothing is stored.
	Get(ctx context.Context) (sessionID string, found bool, err error)
	Clear(ctx context.Context) error
}

// NewStore selects the backend named by cfg.Checkout.Store.
func NewStore(ctx context.Context, cfg *config.AppConfig) (Store, func() error, error) {
	switch cfg.Checkout.Store {
	case "", "file":
		return NewFileStore(cfg.Checkout.FilePath), func() error { return nil }, nil
	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, nil, fmt.Errorf("checkout store redis: REDIS_ADDR is empty")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return NewRedisStore(client, cfg.Checkout.Namespace), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown checkout store %q", cfg.Checkout.Store)
}

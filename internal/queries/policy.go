package queries

import (
	"time"

	"studyhub/internal/config"
	"studyhub/internal/model"
)

// Policy is the cache behavior shared by every hook.
type Policy struct {
	StaleTime    time.Duration
	PollInterval time.Duration
	SignedURLTTL time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		StaleTime:    5 * time.Minute,
		PollInterval: 10 * time.Second,
		SignedURLTTL: time.Hour,
	}
}

// PolicyFrom fills the zero fields of cfg with the defaults.
func PolicyFrom(cfg config.CacheConfig) Policy {
	p := DefaultPolicy()
	if cfg.StaleTime > 0 {
		p.StaleTime = cfg.StaleTime
	}
	if cfg.PollInterval > 0 {
		p.PollInterval = cfg.PollInterval
	}
	if cfg.SignedURLTTL > 0 {
		p.SignedURLTTL = cfg.SignedURLTTL
	}
	return p
}

// PollWhileGenerating returns interval while any item is still generating,
// and zero when the list is absent or every item is settled.
func PollWhileGenerating[T model.Generating](interval time.Duration) func([]T, bool) time.Duration {
	return func(items []T, ok bool) time.Duration {
		if !ok {
			return 0
		}
		for _, it := range items {
			if it.GenerationState() == model.StatusGenerating {
				return interval
			}
		}
		return 0
	}
}

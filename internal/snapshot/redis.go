package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Redis keys the fetch pipeline publishes alongside the cache files. The
// value under each key is the same body the corresponding file holds.
const (
	redisKeyRatings = "courtline:cache:ratings"
	redisKeyStarTax = "courtline:cache:star_tax"
	redisKeyNews    = "courtline:cache:news"
)

// WarmSource reads cache bodies from redis before the store falls back to
// disk. Every call goes through a circuit breaker so a dead redis degrades to
// file reads instead of stalling each load.
type WarmSource struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewWarmSource connects a warm source to redis. The caller owns the client's
// lifecycle.
func NewWarmSource(client *redis.Client) *WarmSource {
	settings := gobreaker.Settings{
		Name:        "snapshot-redis",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("warm cache breaker state change")
		},
	}
	return &WarmSource{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: 2 * time.Second,
	}
}

// fetch returns the body under a key, or an error when redis is down, the
// breaker is open, or the key is absent.
func (w *WarmSource) fetch(ctx context.Context, key string) ([]byte, error) {
	result, err := w.breaker.Execute(func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(ctx, w.timeout)
		defer cancel()
		return w.client.Get(cctx, key).Bytes()
	})
	if err != nil {
		return nil, fmt.Errorf("warm cache fetch %s: %w", key, err)
	}
	return result.([]byte), nil
}

// Ratings fetches and parses the warm ratings body.
func (w *WarmSource) Ratings(ctx context.Context) (*Ratings, error) {
	raw, err := w.fetch(ctx, redisKeyRatings)
	if err != nil {
		return nil, err
	}
	return ParseRatings(raw)
}

// StarTax fetches and parses the warm star-tax body.
func (w *WarmSource) StarTax(ctx context.Context) (*StarTax, error) {
	raw, err := w.fetch(ctx, redisKeyStarTax)
	if err != nil {
		return nil, err
	}
	return ParseStarTax(raw)
}

// News fetches and parses the warm news body.
func (w *WarmSource) News(ctx context.Context) (*News, error) {
	raw, err := w.fetch(ctx, redisKeyNews)
	if err != nil {
		return nil, err
	}
	return ParseNews(raw)
}

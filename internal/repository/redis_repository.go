package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_cart/netcart/internal/session"
	"github.com/fjod/go_cart/netcart/pkg/circuitbreaker"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// RedisRepository keeps session state as JSON with a TTL. Every call goes
// through a circuit breaker so a dead Redis fails fast.
type RedisRepository struct {
	client  *redis.Client
	baseTTL time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewRedisRepository(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	cfg := circuitbreaker.DefaultConfig("redis-sessions")
	cfg.Logger = log
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, redis.Nil)
	}
	return &RedisRepository{
		client:  client,
		baseTTL: ttl,
		breaker: circuitbreaker.New[[]byte](cfg),
	}
}

func (r *RedisRepository) Get(ctx context.Context, sessionID string) (session.State, error) {
	key := sessionKey(sessionID)

	data, err := r.breaker.Execute(func() ([]byte, error) {
		return r.client.Get(ctx, key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return session.State{}, ErrSessionNotFound
	}
	if err != nil {
		return session.State{}, fmt.Errorf("redis get failed: %w", err)
	}

	var st session.State
	if errUnmarshal := json.Unmarshal(data, &st); errUnmarshal != nil {
		return session.State{}, fmt.Errorf("unmarshal session failed: %w", errUnmarshal)
	}
	return st, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, st session.State) error {
	key := sessionKey(sessionID)
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	// jitter spreads expiries of sessions created together
	jitter := time.Duration(rand.Intn(60)) * time.Second
	ttl := r.baseTTL + jitter
	_, err = r.breaker.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)
	_, err := r.breaker.Execute(func() ([]byte, error) {
		return nil, r.client.Del(ctx, key).Err()
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("netcart:session:%s", sessionID)
}

var _ SessionRepository = (*RedisRepository)(nil)

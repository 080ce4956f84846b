package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quietpawn/gambit/internal/domain"
)

const defaultRedisKey = "gambit:session"

// RedisStore keeps the saved session under one redis key. With a zero TTL
// the key never expires.
type RedisStore struct {
	rdb    *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisStore(url, key string, ttl time.Duration, logger *zap.Logger) (*RedisStore, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("redis url is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		key = defaultRedisKey
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{rdb: redis.NewClient(opt), key: key, ttl: ttl, logger: logger}, nil
}

func (r *RedisStore) Save(ctx context.Context, snap domain.SessionSnapshot) error {
	prior, err := r.rdb.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		prior = nil
	} else if err != nil {
		return fmt.Errorf("read prior session: %w", err)
	}

	data, err := Encode(snap, prior)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	r.logger.Debug("session saved",
		zap.String("key", r.key),
		zap.Int("moves", len(snap.MovesUCI)))
	return nil
}

func (r *RedisStore) Load(ctx context.Context) (domain.SessionSnapshot, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return domain.SessionSnapshot{}, ErrNoSession
	}
	if err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("read session: %w", err)
	}
	return Decode(raw)
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.rdb.Close() }

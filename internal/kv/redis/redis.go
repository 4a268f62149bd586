// Package redis is a kv.Store backed by plain Redis string keys.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/MrJamesThe3rd/lifemanager/internal/kv"
)

// Client is the subset of *redis.Client the store uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Store struct {
	client Client
}

func New(client Client) *Store {
	return &Store{client: client}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*Store, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, kv.Wrap("ping", addr, err)
	}

	return New(client), client, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kv.ErrNotFound
	}

	if err != nil {
		return nil, kv.Wrap("get", key, err)
	}

	return b, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return kv.Wrap("set", key, s.client.Set(ctx, key, value, 0).Err())
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return kv.Wrap("remove", key, s.client.Del(ctx, key).Err())
}

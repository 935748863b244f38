package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

const connectTimeout = 5 * time.Second

// RedisStore keeps each document under the key "<collection>:<id>" as a
// JSON-encoded envelope. Documents have no TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedis connects and verifies the connection with a ping.
func NewRedis(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(collection, id string) string {
	return collection + ":" + id
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	raw, err := s.client.Get(ctx, redisKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", collection, id, err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return &doc, nil
}

func (s *RedisStore) Set(ctx context.Context, collection, id string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &PersistenceError{Collection: collection, ID: id, Err: err}
	}
	if err := s.client.Set(ctx, redisKey(collection, id), raw, 0).Err(); err != nil {
		return &PersistenceError{Collection: collection, ID: id, Err: err}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

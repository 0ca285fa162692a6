package tokenstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "bank_portal:"

// RedisStorage keeps the credential in a Redis hash so several portal
// processes on one workstation share it.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage builds a Redis-backed storage. An empty prefix uses "bank_portal:".
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStorage{client: client, key: prefix + "credential"}
}

// Load reads the credential hash.
func (r *RedisStorage) Load(ctx context.Context) (Credential, bool, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Credential{}, false, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return Credential{}, false, nil
	}
	kind, err := ParseKind(fields[fieldKind])
	if err != nil {
		return Credential{}, false, err
	}
	return Credential{Token: fields[fieldToken], Kind: kind}, true, nil
}

// Save replaces the hash inside a MULTI/EXEC block.
func (r *RedisStorage) Save(ctx context.Context, cred Credential) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, fieldToken, cred.Token, fieldKind, string(cred.Kind))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save credential: %w", err)
	}
	return nil
}

// Delete removes the hash.
func (r *RedisStorage) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

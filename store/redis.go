package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/mixing-rl/types"
)

// DefaultRedisKey under which tables are stored
const DefaultRedisKey = "mixing-rl:qtable"

// RunKey is the key of the table of one run under a key prefix
func RunKey(prefix string, run int) string {
	if prefix == "" {
		prefix = DefaultRedisKey
	}
	return fmt.Sprintf("%s:%d", prefix, run)
}

// RedisStore keeps the table as a single binary string value
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ Store = &RedisStore{}

func NewRedisStore(addr, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: 2 * time.Second,
		}),
		key: key,
	}
}

// NewRedisStoreWithClient uses an existing client, the store does not close it
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Location() string {
	return fmt.Sprintf("redis://%s/%s", r.client.Options().Addr, r.key)
}

func (r *RedisStore) Save(ctx context.Context, table *types.QTable) error {
	buf := new(bytes.Buffer)
	if _, err := table.WriteTo(buf); err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, buf.Bytes(), 0).Err()
}

func (r *RedisStore) Load(ctx context.Context, states, actions int) (*types.QTable, error) {
	bs, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.Location())
	} else if err != nil {
		return nil, err
	}
	return types.ReadQTable(bytes.NewReader(bs), states, actions)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/tutormatch/internal/config"
)

// ErrMiss is returned by typed getters when the key is absent.
var ErrMiss = errors.New("cache miss")

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

// KeyForLikeCount generates Redis key for the likes a user has received.
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// KeyForRatingSummary generates Redis key for a user's rating summary.
func (c *RedisCache) KeyForRatingSummary(userID uint64) string {
	return fmt.Sprintf("ratings:summary:%d", userID)
}

// GetLikeCount returns the cached like count and refreshes its TTL.
// A missing key yields ErrMiss.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64, ttl time.Duration) (int64, error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return 0, ErrMiss
	} else if err != nil {
		return 0, err
	}
	// refresh TTL on access, the user is active
	_ = c.Client.Expire(ctx, key, ttl).Err()
	return strconv.ParseInt(val, 10, 64)
}

// genKey holds the invalidation counter of key.
func genKey(key string) string {
	return key + ":gen"
}

// Entry is a value to cache at Key unless Key was invalidated after Gen was
// read.
type Entry struct {
	Key   string
	Gen   string
	Value any
}

// fillScript sets each key only while its generation still matches.
// KEYS: key1, gen1, key2, gen2, ...  ARGV: ttl ms, gen1, value1, gen2, value2, ...
var fillScript = redis.NewScript(`
local ttl = ARGV[1]
local j = 2
for i = 1, #KEYS, 2 do
  local gen = redis.call('GET', KEYS[i + 1]) or ''
  if gen == ARGV[j] then
    if ttl ~= '0' then
      redis.call('SET', KEYS[i], ARGV[j + 1], 'PX', ttl)
    else
      redis.call('SET', KEYS[i], ARGV[j + 1])
    end
  end
  j = j + 2
end
return 0
`)

// Generations returns the invalidation generation of each key, "" for keys
// never invalidated. Read them before loading the values passed to Fill.
func (c *RedisCache) Generations(ctx context.Context, keys ...string) ([]string, error) {
	gens := make([]string, len(keys))
	if len(keys) == 0 {
		return gens, nil
	}
	genKeys := make([]string, len(keys))
	for i, k := range keys {
		genKeys[i] = genKey(k)
	}
	vals, err := c.Client.MGet(ctx, genKeys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			gens[i] = s
		}
	}
	return gens, nil
}

// Fill writes entries whose generation is unchanged, in one round trip.
// Entries whose key was invalidated meanwhile are dropped.
func (c *RedisCache) Fill(ctx context.Context, ttl time.Duration, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, 0, 2*len(entries))
	args := make([]any, 0, 1+2*len(entries))
	args = append(args, max(ttl.Milliseconds(), 0))
	for _, e := range entries {
		keys = append(keys, e.Key, genKey(e.Key))
		args = append(args, e.Gen, e.Value)
	}
	return fillScript.Run(ctx, c.Client, keys, args...).Err()
}

// Invalidate drops keys and bumps their generations.
func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, genKey(k))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

// MGetJSON loads several keys in one round trip. Missing keys are absent
// from the result; undecodable values are skipped.
func MGetJSON[T any](ctx context.Context, c *RedisCache, keys []string) (map[string]T, error) {
	out := make(map[string]T, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var dst T
		if json.Unmarshal([]byte(s), &dst) == nil {
			out[keys[i]] = dst
		}
	}
	return out, nil
}

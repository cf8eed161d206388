package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend 是 Redis 实现的缓存后端。
// 生产环境常用，支持持久化、集群、哨兵等；多个进程共享同一份缓存。
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend 从连接 URL（redis:// 或 rediss://）创建 Redis 后端。
// 这里不做连接探测：后端可能稍后才可用，健康状况由每次调用的 Ping 决定。
func NewRedisBackend(url string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisBackend{client: redis.NewClient(opts)}, nil
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	return val, err
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte, ttlSeconds int64) error {
	var expiration time.Duration
	if ttlSeconds > 0 {
		expiration = time.Duration(ttlSeconds) * time.Second
	}
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisBackend) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisBackend) Keys(ctx context.Context, pattern string) ([]string, error) {
	return r.client.Keys(ctx, pattern).Result()
}

func (r *RedisBackend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *RedisBackend) TTL(ctx context.Context, key string) (int64, error) {
	d, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return TTLAbsent, err
	}
	// go-redis 对 -1/-2 的特殊应答保留为原始 Duration 值
	if d < 0 {
		return int64(d), nil
	}
	return int64(d / time.Second), nil
}

func (r *RedisBackend) Expire(ctx context.Context, key string, ttlSeconds int64) error {
	if ttlSeconds == 0 {
		// EXPIRE 0 会直接删 key；0 的语义是"改为永不过期"
		return r.client.Persist(ctx, key).Err()
	}
	return r.client.Expire(ctx, key, time.Duration(ttlSeconds)*time.Second).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

// 确保 RedisBackend 实现了 Backend 接口
var _ Backend = (*RedisBackend)(nil)

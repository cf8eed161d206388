package cache

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// MemoryAddr 是禁用远端后端的哨兵地址：只用进程内缓存。
const MemoryAddr = "memory://"

// TTL 的特殊返回值（与 Redis TTL 命令语义一致）。
const (
	TTLNoExpiry int64 = -1 // key 存在且永不过期
	TTLAbsent   int64 = -2 // key 不存在
)

// Cache 是双后端缓存门面。
//
// 后端选择：每次调用先对远端做健康检查，健康则整个调用走远端，
// 否则整个调用只走本地——两个后端绝不在同一次调用里并行咨询，
// 避免事件驱动开关与并发读之间的隐藏竞态。
//
// 失败语义：
//   - Get 永不报错：后端错误降级为"未命中"
//   - Set 远端失败时记日志并落到本地，缓存语义保持可用
//   - GetOrSet 的 compute 失败被捕获，不缓存任何东西，返回未命中
//
// 并发：不做 single-flight 去重。同一 key 的两个并发未命中都会执行
// compute 并各自写回，后写者胜；重复计算是简单性的代价。
// compute 一旦触发就运行到结束，调用方需要超时请自行包 context。
type Cache struct {
	remote Backend // nil 表示 memory:// 哨兵，远端被整体禁用
	local  *LocalBackend
	log    zerolog.Logger
}

// Option 配置 Cache 的可选项。
type Option func(*Cache)

// WithLogger 注入日志器（默认丢弃日志）。
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New 创建缓存门面。addr 为远端连接 URL（redis:// / rediss://），
// 或 MemoryAddr 哨兵（完全禁用远端）。URL 非法属于配置错误，直接返回。
// 远端此刻连不上不算错误：之后每次调用都会重新探测。
func New(addr string, opts ...Option) (*Cache, error) {
	c := &Cache{
		local: NewLocalBackend(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if addr == MemoryAddr {
		c.log.Info().Msg("cache: remote backend disabled, using in-process cache only")
		return c, nil
	}

	remote, err := NewRedisBackend(addr)
	if err != nil {
		return nil, err
	}
	c.remote = remote
	return c, nil
}

// backend 为本次调用选定后端。
func (c *Cache) backend(ctx context.Context) Backend {
	if c.remote == nil {
		return c.local
	}
	if err := c.remote.Ping(ctx); err != nil {
		metricFallbacks.Inc()
		c.log.Warn().Err(err).Msg("cache: remote backend unreachable, falling back to local")
		return c.local
	}
	return c.remote
}

// Get 读取 key 并反序列化到 dest。返回是否命中；后端错误降级为未命中。
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	b := c.backend(ctx)
	data, err := b.Get(ctx, key)
	if err != nil {
		if !IsCacheMiss(err) {
			c.log.Warn().Err(err).Str("key", key).Str("backend", b.Name()).Msg("cache: get failed")
		}
		metricMisses.WithLabelValues(b.Name()).Inc()
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: corrupt entry, treating as miss")
		metricMisses.WithLabelValues(b.Name()).Inc()
		return false
	}
	metricHits.WithLabelValues(b.Name()).Inc()
	return true
}

// Set 序列化并写入 key。ttlSeconds = 0 表示永不过期。
// 远端写失败时记日志并写入本地兜底；序列化失败属于调用方 bug，向上传播。
func (c *Cache) Set(ctx context.Context, key string, value any, ttlSeconds int64) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	b := c.backend(ctx)
	if err := b.Set(ctx, key, data, ttlSeconds); err != nil {
		c.log.Warn().Err(err).Str("key", key).Str("backend", b.Name()).Msg("cache: set failed, writing to local")
		metricFallbacks.Inc()
		return c.local.Set(ctx, key, data, ttlSeconds)
	}
	return nil
}

// GetOrSet 是 cache-aside 读路径：命中直接返回；未命中执行 compute、
// 按 TTL 写回并返回。compute 失败被捕获并记日志，返回 (零值, false)——
// 调用方必须把 false 理解为"没能产出值"而不是"空结果"。
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttlSeconds int64, compute func(ctx context.Context) (T, error)) (T, bool) {
	var out T
	if c.Get(ctx, key, &out) {
		return out, true
	}

	fresh, err := compute(ctx)
	if err != nil {
		metricComputeErrors.Inc()
		c.log.Error().Err(err).Str("key", key).Msg("cache: compute failed in getOrSet")
		var zero T
		return zero, false
	}

	if err := c.Set(ctx, key, fresh, ttlSeconds); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: failed to store computed value")
	}
	return fresh, true
}

// Del 删除单个 key。远端健康时两边都删，保证降级后不会读到旧值。
func (c *Cache) Del(ctx context.Context, key string) error {
	return c.MDel(ctx, []string{key})
}

// MDel 批量删除。
func (c *Cache) MDel(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	b := c.backend(ctx)
	if b != c.local {
		if err := b.Del(ctx, keys...); err != nil {
			c.log.Warn().Err(err).Str("backend", b.Name()).Msg("cache: delete failed on remote")
		}
	}
	return c.local.Del(ctx, keys...)
}

// Keys 按 glob 模式返回匹配的 key。模式非法的错误向上传播（调用方 bug）。
func (c *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	return c.backend(ctx).Keys(ctx, pattern)
}

// InvalidatePattern 删除匹配模式的全部 key（keys + mdel 的组合快捷方式）。
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) error {
	keys, err := c.Keys(ctx, pattern)
	if err != nil {
		return err
	}
	return c.MDel(ctx, keys)
}

// Exists 检查 key 是否存在且未过期；后端错误降级为 false。
func (c *Cache) Exists(ctx context.Context, key string) bool {
	b := c.backend(ctx)
	ok, err := b.Exists(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Str("backend", b.Name()).Msg("cache: exists failed")
		return false
	}
	return ok
}

// TTL 返回剩余秒数；TTLNoExpiry 表示永不过期，TTLAbsent 表示不存在。
func (c *Cache) TTL(ctx context.Context, key string) int64 {
	b := c.backend(ctx)
	ttl, err := b.TTL(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Str("backend", b.Name()).Msg("cache: ttl failed")
		return TTLAbsent
	}
	return ttl
}

// Expire 更新 key 的过期时间。远端健康时两边都更新。
func (c *Cache) Expire(ctx context.Context, key string, ttlSeconds int64) error {
	b := c.backend(ctx)
	if b != c.local {
		if err := b.Expire(ctx, key, ttlSeconds); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache: expire failed on remote")
		}
	}
	return c.local.Expire(ctx, key, ttlSeconds)
}

// Close 释放两个后端的资源。
func (c *Cache) Close() error {
	var err error
	if c.remote != nil {
		err = c.remote.Close()
	}
	if lerr := c.local.Close(); lerr != nil && err == nil {
		err = lerr
	}
	return err
}

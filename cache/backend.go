// Package cache 提供带 TTL 的键值缓存抽象：远端 Redis 为主，进程内存兜底。
//
// 设计要点：
//   - 双后端：RedisBackend（远端共享）+ LocalBackend（进程内兜底）
//   - 每次调用通过健康检查显式选择后端，同一调用绝不同时咨询两个后端
//   - 远端不可用时静默降级到本地，调用方永远拿到确定的结果
//   - 所有其他组件的缓存关注点都委托到这里，不自行做 I/O 重试
package cache

import (
	"context"

	"github.com/rushteam/tunekit/core"
)

// Backend 是缓存后端的统一能力接口。
// RedisBackend 和 LocalBackend 都实现此接口；Cache 在每次调用时二选一。
type Backend interface {
	// Name 返回后端名称（用于日志/监控）
	Name() string

	// Ping 健康检查；返回非 nil 表示后端当前不可用
	Ping(ctx context.Context) error

	// Get 读取 key；不存在或已过期返回 ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入 key-value；ttlSeconds = 0 表示永不过期
	Set(ctx context.Context, key string, value []byte, ttlSeconds int64) error

	// Del 删除一个或多个 key
	Del(ctx context.Context, keys ...string) error

	// Keys 按 glob 模式（* 匹配任意字符序列）返回匹配的 key
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Exists 检查 key 是否存在且未过期
	Exists(ctx context.Context, key string) (bool, error)

	// TTL 返回剩余秒数；-1 表示永不过期，-2 表示 key 不存在
	TTL(ctx context.Context, key string) (int64, error)

	// Expire 更新 key 的过期时间；ttlSeconds = 0 表示改为永不过期
	Expire(ctx context.Context, key string, ttlSeconds int64) error

	// Close 关闭连接/释放资源
	Close() error
}

// Cache 错误定义（使用统一的 DomainError）
var (
	// ErrCacheMiss 表示 key 不存在或已过期
	ErrCacheMiss = core.NewDomainError(core.ModuleCache, core.ErrorCodeNotFound, "cache: key not found")
)

// IsCacheMiss 检查错误是否为缓存未命中
func IsCacheMiss(err error) bool {
	if err == nil {
		return false
	}
	domainErr := core.GetDomainError(err)
	if domainErr != nil && domainErr.Module == core.ModuleCache {
		return domainErr.Code == core.ErrorCodeNotFound
	}
	return false
}

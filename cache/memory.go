package cache

import (
	"context"
	"math"
	"sync"
	"time"
)

// LocalBackend 是进程内实现的缓存后端，作为远端不可用时的兜底。
// 过期时间按绝对时间戳记录：读取时惰性判定，另有周期清扫兜底回收。
// 进程重启后数据丢失。
type LocalBackend struct {
	mu    sync.RWMutex
	data  map[string]*localEntry
	clean *time.Ticker
	done  chan struct{}
}

type localEntry struct {
	value []byte
	// expiresAt 为零值表示永不过期
	expiresAt time.Time
}

func (e *localEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func NewLocalBackend() *LocalBackend {
	lb := &LocalBackend{
		data:  make(map[string]*localEntry),
		clean: time.NewTicker(10 * time.Second),
		done:  make(chan struct{}),
	}
	go lb.cleanup()
	return lb
}

func (l *LocalBackend) Name() string { return "local" }

// Ping 本地后端永远可用。
func (l *LocalBackend) Ping(ctx context.Context) error { return nil }

func (l *LocalBackend) Get(ctx context.Context, key string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.data[key]
	if !ok || e.expired(time.Now()) {
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

func (l *LocalBackend) Set(ctx context.Context, key string, value []byte, ttlSeconds int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := &localEntry{value: value}
	if ttlSeconds > 0 {
		e.expiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	}
	// 整条替换，不存在部分写入
	l.data[key] = e
	return nil
}

func (l *LocalBackend) Del(ctx context.Context, keys ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, k := range keys {
		delete(l.data, k)
	}
	return nil
}

func (l *LocalBackend) Keys(ctx context.Context, pattern string) ([]string, error) {
	re, err := globToRegexp(pattern)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	now := time.Now()
	out := make([]string, 0)
	for k, e := range l.data {
		if e.expired(now) {
			continue
		}
		if re.MatchString(k) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (l *LocalBackend) Exists(ctx context.Context, key string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.data[key]
	return ok && !e.expired(time.Now()), nil
}

func (l *LocalBackend) TTL(ctx context.Context, key string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.data[key]
	if !ok || e.expired(time.Now()) {
		return TTLAbsent, nil
	}
	if e.expiresAt.IsZero() {
		return TTLNoExpiry, nil
	}
	remaining := time.Until(e.expiresAt).Seconds()
	if remaining <= 0 {
		return TTLAbsent, nil
	}
	return int64(math.Ceil(remaining)), nil
}

func (l *LocalBackend) Expire(ctx context.Context, key string, ttlSeconds int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.data[key]
	if !ok || e.expired(time.Now()) {
		return nil
	}
	if ttlSeconds == 0 {
		e.expiresAt = time.Time{}
		return nil
	}
	e.expiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

func (l *LocalBackend) Close() error {
	l.clean.Stop()
	close(l.done)
	return nil
}

// cleanup 周期清扫已过期条目，避免只写不读的 key 永久占用内存。
func (l *LocalBackend) cleanup() {
	for {
		select {
		case <-l.done:
			return
		case <-l.clean.C:
			l.mu.Lock()
			now := time.Now()
			for k, e := range l.data {
				if e.expired(now) {
					delete(l.data, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// 确保 LocalBackend 实现了 Backend 接口
var _ Backend = (*LocalBackend)(nil)

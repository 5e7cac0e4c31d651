package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache — хранилище байтовых значений с TTL. Реализации: MemoryCache и RedisCache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// MemoryCache — кеш в памяти процесса с фоновой очисткой просроченных записей.
type MemoryCache struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache создаёт кеш. Очистка останавливается вместе с ctx.
func NewMemoryCache(ctx context.Context, cleanupEvery time.Duration) *MemoryCache {
	mc := &MemoryCache{
		cache: make(map[string]*cacheEntry),
		now:   time.Now,
	}
	if cleanupEvery <= 0 {
		cleanupEvery = 5 * time.Minute
	}

	go mc.cleanup(ctx, cleanupEvery)

	return mc
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	entry, exists := mc.cache[key]
	if !exists {
		return nil, false, nil
	}

	// Просроченные записи удаляет cleanup
	if mc.now().After(entry.expiresAt) {
		return nil, false, nil
	}

	out := make([]byte, len(entry.data))
	copy(out, entry.data)
	return out, true, nil
}

func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	data := make([]byte, len(value))
	copy(data, value)
	mc.cache[key] = &cacheEntry{
		data:      data,
		expiresAt: mc.now().Add(ttl),
	}
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	delete(mc.cache, key)
	return nil
}

// InvalidateByPrefix удаляет все ключи с заданным префиксом.
func (mc *MemoryCache) InvalidateByPrefix(prefix string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for key := range mc.cache {
		if strings.HasPrefix(key, prefix) {
			delete(mc.cache, key)
		}
	}
}

func (mc *MemoryCache) Ping(context.Context) error {
	return nil
}

// Len возвращает число записей, включая ещё не очищенные просроченные.
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.cache)
}

func (mc *MemoryCache) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mc.removeExpired()
		}
	}
}

func (mc *MemoryCache) removeExpired() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	for key, entry := range mc.cache {
		if now.After(entry.expiresAt) {
			delete(mc.cache, key)
		}
	}
}

// Ключи кеша
const methodsCachePrefix = "withdrawal_methods:"

// MethodsCacheKey — ключ каталога способов вывода. Каталог общий для всех пользователей.
func MethodsCacheKey() string {
	return methodsCachePrefix + "all"
}

// MethodIconCacheKey — ключ иконки способа вывода.
func MethodIconCacheKey(code string) string {
	return methodsCachePrefix + "icon:" + code
}

// InvalidateMethods сбрасывает каталог и иконки.
func (mc *MemoryCache) InvalidateMethods() {
	mc.InvalidateByPrefix(methodsCachePrefix)
}

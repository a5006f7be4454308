package utility

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// cacheItem 代表一个带过期时间的缓存条目
type cacheItem struct {
	value      string
	expiration time.Time // 零值表示永不过期
}

func (i *cacheItem) expired() bool {
	return !i.expiration.IsZero() && time.Now().After(i.expiration)
}

// memoryCacheService 是 CacheService 的进程内实现，
// 在未配置 Redis 或 Redis 不可达时作为降级方案使用。
type memoryCacheService struct {
	mu    sync.RWMutex
	items map[string]*cacheItem
}

// NewMemoryCacheService 创建一个内存缓存服务，并启动后台清理协程
func NewMemoryCacheService() CacheService {
	s := &memoryCacheService{
		items: make(map[string]*cacheItem),
	}
	go s.cleanupLoop()
	return s
}

// cleanupLoop 周期性地清理已过期的条目
func (s *memoryCacheService) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		for key, item := range s.items {
			if item.expired() {
				delete(s.items, key)
			}
		}
		s.mu.Unlock()
	}
}

func (s *memoryCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	item := &cacheItem{value: fmt.Sprintf("%v", value)}
	if expiration > 0 {
		item.expiration = time.Now().Add(expiration)
	}
	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *memoryCacheService) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || item.expired() {
		return "", nil
	}
	return item.value, nil
}

func (s *memoryCacheService) Delete(ctx context.Context, key ...string) error {
	s.mu.Lock()
	for _, k := range key {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return nil
}

func (s *memoryCacheService) Increment(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current int64
	if item, ok := s.items[key]; ok && !item.expired() {
		n, err := strconv.ParseInt(item.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("缓存值不是整数: %w", err)
		}
		current = n
	}
	current++
	expiration := time.Time{}
	if item, ok := s.items[key]; ok {
		expiration = item.expiration
	}
	s.items[key] = &cacheItem{value: strconv.FormatInt(current, 10), expiration: expiration}
	return current, nil
}

func (s *memoryCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[key]
	if !ok || item.expired() {
		return nil
	}
	item.expiration = time.Now().Add(expiration)
	return nil
}

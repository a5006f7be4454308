package utility

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewCacheServiceWithFallback 根据 Redis 客户端是否可用选择缓存实现。
// client 为 nil 时退回进程内缓存，服务层无需感知差异。
func NewCacheServiceWithFallback(client *redis.Client) CacheService {
	if client != nil {
		slog.Info("缓存服务使用 Redis 实现")
		return NewCacheService(client)
	}
	slog.Warn("Redis 未配置或不可达，缓存服务降级为内存实现")
	return NewMemoryCacheService()
}

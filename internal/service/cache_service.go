package service

import (
	"context"
	"encoding/json"
	"time"

	"agrihub/pkg/logger"
	redispkg "agrihub/pkg/redis"
)

// redisCacheService Redis缓存服务实现
//
// 所有存储错误在这里吞掉：读失败当未命中，写失败只告警。
// 缓存整体不可用时检索只是变慢，不会变坏。
type redisCacheService struct {
	client *redispkg.RedisClient
	logger logger.Logger
}

// NewRedisCacheService 创建Redis缓存服务实例
func NewRedisCacheService(client *redispkg.RedisClient, log logger.Logger) CacheService {
	return &redisCacheService{
		client: client,
		logger: log,
	}
}

// Get 读取缓存并反序列化到out，返回是否命中
func (s *redisCacheService) Get(ctx context.Context, key string, out interface{}) bool {
	val, err := s.client.Get(ctx, key)
	if err != nil {
		if !redispkg.IsNilErr(err) {
			s.logger.Warn(ctx, "Cache read failed, treating as miss",
				logger.F("key", key),
				logger.F("error", err.Error()))
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), out); err != nil {
		s.logger.Warn(ctx, "Cache payload corrupt, treating as miss",
			logger.F("key", key),
			logger.F("error", err.Error()))
		return false
	}
	return true
}

// Set 写入缓存
func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, ttlSeconds int) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn(ctx, "Cache payload marshal failed",
			logger.F("key", key),
			logger.F("error", err.Error()))
		return
	}

	if err := s.client.Set(ctx, key, data, time.Duration(ttlSeconds)*time.Second); err != nil {
		s.logger.Warn(ctx, "Cache write failed",
			logger.F("key", key),
			logger.F("error", err.Error()))
	}
}

// Delete 删除指定键
func (s *redisCacheService) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key); err != nil {
		s.logger.Warn(ctx, "Cache delete failed",
			logger.F("key", key),
			logger.F("error", err.Error()))
	}
}

// Flush 按模式清空缓存
func (s *redisCacheService) Flush(ctx context.Context, pattern string) {
	keys, err := s.client.Keys(ctx, pattern)
	if err != nil {
		s.logger.Warn(ctx, "Cache flush scan failed",
			logger.F("pattern", pattern),
			logger.F("error", err.Error()))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...); err != nil {
		s.logger.Warn(ctx, "Cache flush failed",
			logger.F("pattern", pattern),
			logger.F("error", err.Error()))
	}
}

// noopCacheService 空缓存实现，测试与降级部署使用
type noopCacheService struct{}

// NewNoopCacheService 创建空缓存服务实例
func NewNoopCacheService() CacheService {
	return &noopCacheService{}
}

func (s *noopCacheService) Get(ctx context.Context, key string, out interface{}) bool { return false }
func (s *noopCacheService) Set(ctx context.Context, key string, value interface{}, ttlSeconds int) {
}
func (s *noopCacheService) Delete(ctx context.Context, key string)  {}
func (s *noopCacheService) Flush(ctx context.Context, pattern string) {}

// Package auth 提供认证相关的业务逻辑
// 维护 Refresh Token 与用户的对应关系，实现单点登录互踢
package auth

import (
	"context"
	"time"

	myredis "flatshare_server/internal/dao/redis"
	"flatshare_server/pkg/constants"
)

// Service 认证服务实现
type Service struct {
	cache myredis.CacheService // 缓存服务（依赖倒置）
}

// NewAuthService 创建认证服务实例
func NewAuthService(cache myredis.CacheService) *Service {
	return &Service{
		cache: cache,
	}
}

func tokenKey(userID string) string {
	return constants.USER_TOKEN_KEY_PREFIX + userID
}

// SaveTokenID 记录用户当前有效的 Refresh Token ID，旧的随之失效
func (s *Service) SaveTokenID(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, tokenKey(userID), tokenID, ttl)
}

// ValidateTokenID 验证用户的 Token ID 是否有效
// 返回: 是否有效, 错误信息
func (s *Service) ValidateTokenID(ctx context.Context, userID, tokenID string) (bool, error) {
	validTokenID, err := s.cache.Get(ctx, tokenKey(userID))
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return false, nil
	}
	return tokenID == validTokenID, nil
}

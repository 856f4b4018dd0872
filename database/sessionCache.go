package database

import (
	"context"
	"encoding/json"
	"time"

	"liveserver/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// tokenに紐づくユーザー情報をRedisにキャッシュする際の有効期限
const sessionCacheTTL = 24 * time.Hour

// GetCachedUser はtokenに対応するユーザー情報をRedisから取得します。
// キャッシュミスやRedis障害時はnilを返し、呼び出し側がMySQLへフォールバックします。
func GetCachedUser(ctx context.Context, rdb *redis.Client, token string, logger *zap.Logger) *models.SafeUser {
	if rdb == nil || token == "" {
		return nil
	}

	userJSON, err := rdb.Get(ctx, "session:"+token).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Failed to retrieve session cache", zap.Error(err))
		}
		return nil
	}

	var user models.SafeUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		logger.Warn("Failed to decode session cache", zap.Error(err))
		return nil
	}
	return &user
}

// CacheUser はtokenに対応するユーザー情報をRedisに保存します。失敗してもログのみ。
func CacheUser(ctx context.Context, rdb *redis.Client, token string, user models.SafeUser, logger *zap.Logger) {
	if rdb == nil || token == "" {
		return
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		logger.Warn("Error encoding session cache", zap.Error(err))
		return
	}

	if err := rdb.Set(ctx, "session:"+token, userJSON, sessionCacheTTL).Err(); err != nil {
		logger.Warn("Error storing session cache in Redis", zap.Error(err))
	}
}

// InvalidateUser はユーザー情報更新時にキャッシュを破棄します。
func InvalidateUser(ctx context.Context, rdb *redis.Client, token string, logger *zap.Logger) {
	if rdb == nil || token == "" {
		return
	}

	if err := rdb.Del(ctx, "session:"+token).Err(); err != nil {
		logger.Warn("Error deleting session cache from Redis", zap.Error(err))
	}
}

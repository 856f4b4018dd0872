package middlewares

import (
	"errors"
	"strings"

	"liveserver/database"
	"liveserver/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidToken はtokenが空、または該当ユーザーが存在しない場合に返します。
var ErrInvalidToken = errors.New("invalid token")

// リクエストヘッダーからBearerトークンを取り出します。
func ExtractBearerToken(c *gin.Context) string {
	tokenString := c.GetHeader("Authorization")

	// Bearerトークンのプレフィックスを確認し、存在する場合は削除
	if strings.HasPrefix(tokenString, "Bearer ") {
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	}
	return tokenString
}

// GetUserByToken はBearerトークンを検証し、対応するユーザーを返します。
// まずRedisのセッションキャッシュを参照し、ミスした場合のみMySQLを引きます。
func GetUserByToken(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) (*models.SafeUser, string, error) {
	tokenString := ExtractBearerToken(c)
	if tokenString == "" {
		return nil, "", ErrInvalidToken
	}

	// キャッシュヒット時はDBアクセスを省略
	if cached := database.GetCachedUser(c.Request.Context(), rdb, tokenString, logger); cached != nil {
		return cached, tokenString, nil
	}

	var user models.User
	if err := db.Where("token = ?", tokenString).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidToken
		}
		logger.Error("Failed to retrieve user by token", zap.Error(err))
		return nil, "", err
	}

	safeUser := user.Safe()
	database.CacheUser(c.Request.Context(), rdb, tokenString, safeUser, logger)
	return &safeUser, tokenString, nil
}

package handlers

import (
	"net/http"

	"liveserver/database"
	"liveserver/middlewares"
	"liveserver/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserCreateRequest はユーザー登録とプロフィール変更のリクエストボディです。
type UserCreateRequest struct {
	UserName     string `json:"user_name"`
	LeaderCardID int    `json:"leader_card_id"`
}

// UserCreate は新規ユーザーを登録し、認証用のtokenを発行するハンドラです。
func UserCreate(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request UserCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("User create request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// tokenはUUIDで生成。衝突した場合は1回だけ再生成してリトライする
	var user models.User
	for attempt := 0; attempt < 2; attempt++ {
		user = models.User{
			Name:         request.UserName,
			Token:        uuid.New().String(),
			LeaderCardID: request.LeaderCardID,
		}
		if err := db.Create(&user).Error; err == nil {
			c.JSON(http.StatusOK, gin.H{"user_token": user.Token})
			return
		} else if attempt == 1 {
			logger.Error("ユーザー登録に失敗しました", zap.Error(err))
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
}

// UserMe は認証済みユーザー自身の情報を返すハンドラです。tokenは含めません。
func UserMe(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	user, _, err := middlewares.GetUserByToken(c, db, rdb, logger)
	if err == middlewares.ErrInvalidToken {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UserUpdate はユーザー名とリーダーカードを更新するハンドラです。
func UserUpdate(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	user, token, err := middlewares.GetUserByToken(c, db, rdb, logger)
	if err == middlewares.ErrInvalidToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	var request UserCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("User update request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":           request.UserName,
			"leader_card_id": request.LeaderCardID,
		}).Error; err != nil {
		logger.Error("ユーザー情報の更新に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー情報の更新に失敗しました"})
		return
	}

	// 古いプロフィールが残らないようにセッションキャッシュを破棄
	database.InvalidateUser(c.Request.Context(), rdb, token, logger)

	c.JSON(http.StatusOK, gin.H{})
}

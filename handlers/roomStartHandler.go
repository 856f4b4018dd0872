package handlers

import (
	"errors"
	"net/http"

	"liveserver/middlewares"
	"liveserver/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoomStartRequest はライブ開始リクエストのボディです。
type RoomStartRequest struct {
	RoomID uint `json:"room_id"`
}

// RoomStart はホストによるライブ開始を処理するハンドラです。
// ルームの状態を LiveStart に進め、待機中のメンバーはポーリングで検知します。
func RoomStart(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	user, _, err := middlewares.GetUserByToken(c, db, rdb, logger)
	if err == middlewares.ErrInvalidToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	var request RoomStartRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room start request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var room models.Room
	if err := db.First(&room, request.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		logger.Error("ルームの取得に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ルームの取得に失敗しました"})
		return
	}

	// ライブを開始できるのはホストのみ
	if room.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can start the live"})
		return
	}

	// 待機中以外の状態からの開始要求は黙って受け流す
	if room.WaitRoomStatus == models.WaitRoomStatusWaiting {
		if err := db.Model(&room).
			Update("wait_room_status", models.WaitRoomStatusLiveStart).Error; err != nil {
			logger.Error("ライブ開始の更新に失敗しました", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ライブ開始の更新に失敗しました"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{})
}

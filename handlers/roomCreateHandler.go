package handlers

import (
	"net/http"

	"liveserver/middlewares"
	"liveserver/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoomCreateRequest はルーム作成リクエストのボディを表す構造体です。
type RoomCreateRequest struct {
	LiveID           int                   `json:"live_id"`
	SelectDifficulty models.LiveDifficulty `json:"select_difficulty"`
}

// RoomCreate はルームを新規作成するハンドラです。
// 作成者は最初のメンバーとして同時に入室します。
func RoomCreate(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	user, _, err := middlewares.GetUserByToken(c, db, rdb, logger)
	if err == middlewares.ErrInvalidToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	var request RoomCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room create request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := models.Room{
		LiveID:         request.LiveID,
		OwnerID:        user.ID,
		WaitRoomStatus: models.WaitRoomStatusWaiting,
	}

	// ルーム作成とオーナーの入室をまとめて行う
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		member := models.RoomMember{
			RoomID:         room.ID,
			MemberID:       user.ID,
			LiveDifficulty: request.SelectDifficulty,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		logger.Error("ルーム作成に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ルーム作成に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_id": room.ID})
}

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

// RoomJoinRequest は入室リクエストのボディを表す構造体です。
type RoomJoinRequest struct {
	RoomID           uint                  `json:"room_id"`
	SelectDifficulty models.LiveDifficulty `json:"select_difficulty"`
}

// RoomJoin は待機中ルームへの入室を処理するハンドラです。
// 満員判定が競合しないよう、ルーム行をロックした上で人数を確認します。
func RoomJoin(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	user, _, err := middlewares.GetUserByToken(c, db, rdb, logger)
	if err == middlewares.ErrInvalidToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	var request RoomJoinRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room join request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	joinResult := models.JoinRoomResultOtherError
	err = db.Transaction(func(tx *gorm.DB) error {
		// SELECT ... FOR UPDATE でルーム行をロック
		var room models.Room
		if err := lockForUpdate(tx).First(&room, request.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				joinResult = models.JoinRoomResultDisbanded
				return nil
			}
			return err
		}

		if room.WaitRoomStatus == models.WaitRoomStatusDissolution {
			joinResult = models.JoinRoomResultDisbanded
			return nil
		}
		if room.WaitRoomStatus != models.WaitRoomStatusWaiting {
			joinResult = models.JoinRoomResultOtherError
			return nil
		}

		// 既に入室済みなら何もせずOKを返す
		var existing int64
		if err := tx.Model(&models.RoomMember{}).
			Where("room_id = ? AND member_id = ?", room.ID, user.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			joinResult = models.JoinRoomResultOK
			return nil
		}

		var joinedCount int64
		if err := tx.Model(&models.RoomMember{}).
			Where("room_id = ?", room.ID).
			Count(&joinedCount).Error; err != nil {
			return err
		}
		if int(joinedCount) >= models.MaxRoomMemberCount {
			joinResult = models.JoinRoomResultRoomFull
			return nil
		}

		member := models.RoomMember{
			RoomID:         room.ID,
			MemberID:       user.ID,
			LiveDifficulty: request.SelectDifficulty,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		joinResult = models.JoinRoomResultOK
		return nil
	})
	if err != nil {
		logger.Error("入室処理に失敗しました", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"join_room_result": models.JoinRoomResultOtherError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"join_room_result": joinResult})
}

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

// RoomLeaveRequest は退室リクエストのボディです。
type RoomLeaveRequest struct {
	RoomID uint `json:"room_id"`
}

// RoomLeave は退室を処理するハンドラです。
// ホストが退室した場合はルームを解散し、最後の1人が抜けた場合はルームを削除します。
func RoomLeave(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	user, _, err := middlewares.GetUserByToken(c, db, rdb, logger)
	if err == middlewares.ErrInvalidToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	var request RoomLeaveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room leave request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockForUpdate(tx).First(&room, request.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 既に削除済みのルームからの退室は成功扱い
				return nil
			}
			return err
		}

		if err := tx.Where("room_id = ? AND member_id = ?", room.ID, user.ID).
			Delete(&models.RoomMember{}).Error; err != nil {
			return err
		}

		// ホストが抜けた場合はルームを解散
		if room.OwnerID == user.ID && room.WaitRoomStatus != models.WaitRoomStatusDissolution {
			if err := tx.Model(&room).
				Update("wait_room_status", models.WaitRoomStatusDissolution).Error; err != nil {
				return err
			}
		}

		// 誰もいなくなったルームはそのまま削除
		var remaining int64
		if err := tx.Model(&models.RoomMember{}).
			Where("room_id = ?", room.ID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Delete(&room).Error
		}
		return nil
	})
	if err != nil {
		logger.Error("退室処理に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "退室処理に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

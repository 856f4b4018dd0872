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

// RoomWaitRequest はルーム待機画面のポーリングリクエストです。
type RoomWaitRequest struct {
	RoomID uint `json:"room_id"`
}

// RoomWait はルームの状態と入室メンバーの一覧を返すハンドラです。
// クライアントはライブ開始までこのエンドポイントをポーリングします。
func RoomWait(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	user, _, err := middlewares.GetUserByToken(c, db, rdb, logger)
	if err == middlewares.ErrInvalidToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	var request RoomWaitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room wait request bind error", zap.Error(err))
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

	// メンバー以外には待機情報を見せない
	var memberCount int64
	if err := db.Model(&models.RoomMember{}).
		Where("room_id = ? AND member_id = ?", room.ID, user.ID).
		Count(&memberCount).Error; err != nil {
		logger.Error("入室レコードの取得に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "入室レコードの取得に失敗しました"})
		return
	}
	if memberCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	// 入室メンバーとユーザー情報をまとめて取得
	var members []struct {
		MemberID       uint
		Name           string
		LeaderCardID   int
		LiveDifficulty models.LiveDifficulty
	}
	if err := db.Model(&models.RoomMember{}).
		Select("room_member.member_id, user.name, user.leader_card_id, room_member.live_difficulty").
		Joins("JOIN user ON user.id = room_member.member_id").
		Where("room_member.room_id = ?", room.ID).
		Order("room_member.member_id").
		Scan(&members).Error; err != nil {
		logger.Error("メンバー一覧の取得に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "メンバー一覧の取得に失敗しました"})
		return
	}

	roomUserList := []models.RoomUser{}
	for _, m := range members {
		roomUserList = append(roomUserList, models.RoomUser{
			UserID:           m.MemberID,
			Name:             m.Name,
			LeaderCardID:     m.LeaderCardID,
			SelectDifficulty: m.LiveDifficulty,
			IsMe:             m.MemberID == user.ID,
			IsHost:           m.MemberID == room.OwnerID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         room.WaitRoomStatus,
		"room_user_list": roomUserList,
	})
}

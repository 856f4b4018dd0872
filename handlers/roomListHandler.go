package handlers

import (
	"net/http"

	"liveserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoomListRequest はルーム一覧リクエストのボディを表す構造体です。
// live_id が 0 の場合は全ての待機中ルームを対象にします。
type RoomListRequest struct {
	LiveID int `json:"live_id"`
}

// RoomList は入場可能な待機中ルームの一覧を返すハンドラです。認証は不要です。
func RoomList(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request RoomListRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room list request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// wait_room_status と live_id の複合インデックスを使う検索
	query := db.Where("wait_room_status = ?", models.WaitRoomStatusWaiting)
	if request.LiveID != 0 {
		query = query.Where("live_id = ?", request.LiveID)
	}

	var rooms []models.Room
	if err := query.Find(&rooms).Error; err != nil {
		logger.Error("ルーム一覧の取得に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ルーム一覧の取得に失敗しました"})
		return
	}

	roomInfoList := []models.RoomInfo{}
	for _, room := range rooms {
		var joinedCount int64
		if err := db.Model(&models.RoomMember{}).
			Where("room_id = ?", room.ID).
			Count(&joinedCount).Error; err != nil {
			logger.Error("入室人数の取得に失敗しました", zap.Error(err))
			continue
		}
		// 満員のルームは一覧に出さない
		if int(joinedCount) >= models.MaxRoomMemberCount {
			continue
		}
		roomInfoList = append(roomInfoList, models.RoomInfo{
			RoomID:          room.ID,
			LiveID:          room.LiveID,
			JoinedUserCount: int(joinedCount),
			MaxUserCount:    models.MaxRoomMemberCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"room_info_list": roomInfoList})
}

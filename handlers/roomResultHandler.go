package handlers

import (
	"encoding/json"
	"net/http"

	"liveserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoomResultRequest はリザルト画面のポーリングリクエストです。
type RoomResultRequest struct {
	RoomID uint `json:"room_id"`
}

// RoomResult は全メンバーの成績を返すハンドラです。
// 全員の終了報告が揃うまでは空のリストを返し、クライアントはポーリングを続けます。
func RoomResult(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request RoomResultRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room result request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var members []models.RoomMember
	if err := db.Where("room_id = ?", request.RoomID).
		Order("member_id").
		Find(&members).Error; err != nil {
		logger.Error("リザルトの取得に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "リザルトの取得に失敗しました"})
		return
	}

	resultUserList := []models.ResultUser{}
	for _, m := range members {
		// 報告がまだのメンバーがいる間は空リストを返す
		if m.Score == nil || m.JudgeCountList == nil {
			c.JSON(http.StatusOK, gin.H{"result_user_list": []models.ResultUser{}})
			return
		}
		var judgeCounts []int
		if err := json.Unmarshal([]byte(*m.JudgeCountList), &judgeCounts); err != nil {
			logger.Error("判定数のデコードに失敗しました",
				zap.Uint("room_id", m.RoomID), zap.Uint("member_id", m.MemberID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "判定数のデコードに失敗しました"})
			return
		}
		resultUserList = append(resultUserList, models.ResultUser{
			UserID:         m.MemberID,
			JudgeCountList: judgeCounts,
			Score:          *m.Score,
		})
	}

	c.JSON(http.StatusOK, gin.H{"result_user_list": resultUserList})
}

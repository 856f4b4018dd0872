package handlers

import (
	"encoding/json"
	"net/http"

	"liveserver/middlewares"
	"liveserver/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoomEndRequest はライブ終了報告のボディです。
type RoomEndRequest struct {
	RoomID         uint  `json:"room_id"`
	JudgeCountList []int `json:"judge_count_list"`
	Score          int   `json:"score"`
}

// RoomEnd はライブ終了時のスコアと判定数を記録するハンドラです。
func RoomEnd(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	user, _, err := middlewares.GetUserByToken(c, db, rdb, logger)
	if err == middlewares.ErrInvalidToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	var request RoomEndRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room end request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// judge_count_listはJSON配列の文字列としてそのまま保存する
	judgeJSON, err := json.Marshal(request.JudgeCountList)
	if err != nil {
		logger.Error("判定数のエンコードに失敗しました", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "判定数のエンコードに失敗しました"})
		return
	}
	judgeStr := string(judgeJSON)

	// 入室確認はSELECTで行う。MySQLのRowsAffectedは変更された行数を返すため、
	// 同じ内容の再送（クライアントのリトライ）で0になり判定に使えない。
	var memberCount int64
	if err := db.Model(&models.RoomMember{}).
		Where("room_id = ? AND member_id = ?", request.RoomID, user.ID).
		Count(&memberCount).Error; err != nil {
		logger.Error("入室レコードの取得に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "入室レコードの取得に失敗しました"})
		return
	}
	if memberCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room member not found"})
		return
	}

	if err := db.Model(&models.RoomMember{}).
		Where("room_id = ? AND member_id = ?", request.RoomID, user.ID).
		Updates(map[string]interface{}{
			"judge_count_list": judgeStr,
			"score":            request.Score,
		}).Error; err != nil {
		logger.Error("リザルトの保存に失敗しました", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "リザルトの保存に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

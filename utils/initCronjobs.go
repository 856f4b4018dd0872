package utils

import (
	"time"

	"liveserver/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dissolveIdleRooms は24時間更新がないルームをDissolutionに更新します。
func dissolveIdleRooms(db *gorm.DB, logger *zap.Logger) {
	logger.Info("放置ルームを解散する処理を開始")
	result := db.Model(&models.Room{}).
		Where("wait_room_status IN ? AND updated_at <= ?",
			[]models.WaitRoomStatus{models.WaitRoomStatusWaiting, models.WaitRoomStatusLiveStart},
			time.Now().Add(-24*time.Hour)).
		Update("wait_room_status", models.WaitRoomStatusDissolution)
	if result.Error != nil {
		logger.Error("放置ルームの解散に失敗しました", zap.Error(result.Error))
	} else if result.RowsAffected > 0 {
		logger.Info("放置ルームを解散しました", zap.Int("rooms_dissolved", int(result.RowsAffected)))
	}
}

// purgeDissolvedRooms は解散から48時間経過したルームを入室レコードごと削除します。
func purgeDissolvedRooms(db *gorm.DB, logger *zap.Logger) {
	logger.Info("解散済みルームを削除する処理を開始")
	dissolvedRoomIDs := []uint{}
	db.Model(&models.Room{}).
		Where("wait_room_status = ? AND updated_at <= ?",
			models.WaitRoomStatusDissolution, time.Now().Add(-48*time.Hour)).
		Pluck("id", &dissolvedRoomIDs)

	if len(dissolvedRoomIDs) == 0 {
		return
	}

	// 先に入室レコードを削除（外部キー制約のため）
	if err := db.Where("room_id IN ?", dissolvedRoomIDs).Delete(&models.RoomMember{}).Error; err != nil {
		logger.Error("入室レコードの削除に失敗しました", zap.Error(err))
		return
	}

	// 最後にルーム自体を削除
	result := db.Where("id IN ?", dissolvedRoomIDs).Delete(&models.Room{})
	if result.Error != nil {
		logger.Error("解散済みルームの削除に失敗しました", zap.Error(result.Error))
	} else {
		logger.Info("解散済みルームの削除完了", zap.Int("rooms_deleted", int(result.RowsAffected)))
	}
}

func CronCleaner(db *gorm.DB, logger *zap.Logger) {
	c := cron.New()

	// 放置されたルームを解散状態に更新するジョブ（毎時実行）
	c.AddFunc("@hourly", func() {
		dissolveIdleRooms(db, logger)
	})

	// 解散済みルームを削除するジョブ（"分 時 日 月 曜日"）
	c.AddFunc("0 3 * * *", func() {
		purgeDissolvedRooms(db, logger)
	})

	c.Start()
}

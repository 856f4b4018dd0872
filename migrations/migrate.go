package main

import (
	"fmt"

	"liveserver/database"
	"liveserver/models"

	"go.uber.org/zap"
)

// schema.sqlと同じ3テーブルをGORMのモデル定義から作り直すスクリプトです。
// 実行方法: go run ./migrations
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	config, err := database.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
	}
	db, err := database.InitMySQL(config, logger)
	if err != nil {
		logger.Fatal("MySQLの初期化に失敗しました", zap.Error(err))
	}

	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.RoomMember{}); err != nil {
		panic("Error migrating tables: " + err.Error())
	}
	fmt.Println("user, room, room_member tables created successfully")
}

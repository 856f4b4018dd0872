package main

import (
	"time"

	"go.uber.org/zap"

	"liveserver/database" //MySQLとRedisの初期化
	"liveserver/handlers" //各画面のHTTPリクエストの処理
	"liveserver/utils"    //ロガーの初期化とCronジョブ(放置ルームの定期クリーンナップ)

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func main() {
	var logger *zap.Logger
	var err error
	logger, err = utils.InitLogger() // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	// 非同期でMySQLとRedisの初期化
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		config, err := database.LoadConfig("config.json")
		if err != nil {
			logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
		}
		db, err = database.InitMySQL(config, logger)
		if err != nil {
			logger.Fatal("MySQLの初期化に失敗しました", zap.Error(err))
		}
		done <- true
	}()

	go func() {
		rdb, err = database.InitRedis(logger)
		if err != nil {
			// セッションキャッシュなしでも動作は継続できる
			logger.Warn("Redisなしで起動します", zap.Error(err))
			rdb = nil
		}
		done <- true
	}()

	// 2つの初期化が完了するのを待つ
	<-done
	<-done

	// クーロンスケジューラのセットアップと呼び出し
	go utils.CronCleaner(db, logger)

	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	//各HTTPリクエストのルーティング
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Hello World"})
	})
	router.POST("/user/create", func(c *gin.Context) {
		handlers.UserCreate(c, db, logger)
	})
	router.GET("/user/me", func(c *gin.Context) {
		handlers.UserMe(c, db, rdb, logger)
	})
	router.POST("/user/update", func(c *gin.Context) {
		handlers.UserUpdate(c, db, rdb, logger)
	})
	router.POST("/room/create", func(c *gin.Context) {
		handlers.RoomCreate(c, db, rdb, logger)
	})
	router.POST("/room/list", func(c *gin.Context) {
		handlers.RoomList(c, db, logger)
	})
	router.POST("/room/join", func(c *gin.Context) {
		handlers.RoomJoin(c, db, rdb, logger)
	})
	router.POST("/room/wait", func(c *gin.Context) {
		handlers.RoomWait(c, db, rdb, logger)
	})
	router.POST("/room/start", func(c *gin.Context) {
		handlers.RoomStart(c, db, rdb, logger)
	})
	router.POST("/room/end", func(c *gin.Context) {
		handlers.RoomEnd(c, db, rdb, logger)
	})
	router.POST("/room/result", func(c *gin.Context) {
		handlers.RoomResult(c, db, logger)
	})
	router.POST("/room/leave", func(c *gin.Context) {
		handlers.RoomLeave(c, db, rdb, logger)
	})

	// デフォルトポートは ":8080"
	router.Run()
}

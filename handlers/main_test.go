package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"liveserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// 共有インメモリDBを保つためコネクションを1本に固定
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.RoomMember{}); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}
	return db
}

// newTestRouter wires every route the same way main.go does, without Redis.
func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	router := gin.New()
	router.POST("/user/create", func(c *gin.Context) {
		UserCreate(c, db, logger)
	})
	router.GET("/user/me", func(c *gin.Context) {
		UserMe(c, db, nil, logger)
	})
	router.POST("/user/update", func(c *gin.Context) {
		UserUpdate(c, db, nil, logger)
	})
	router.POST("/room/create", func(c *gin.Context) {
		RoomCreate(c, db, nil, logger)
	})
	router.POST("/room/list", func(c *gin.Context) {
		RoomList(c, db, logger)
	})
	router.POST("/room/join", func(c *gin.Context) {
		RoomJoin(c, db, nil, logger)
	})
	router.POST("/room/wait", func(c *gin.Context) {
		RoomWait(c, db, nil, logger)
	})
	router.POST("/room/start", func(c *gin.Context) {
		RoomStart(c, db, nil, logger)
	})
	router.POST("/room/end", func(c *gin.Context) {
		RoomEnd(c, db, nil, logger)
	})
	router.POST("/room/result", func(c *gin.Context) {
		RoomResult(c, db, logger)
	})
	router.POST("/room/leave", func(c *gin.Context) {
		RoomLeave(c, db, nil, logger)
	})
	return router
}

// doRequest sends a JSON request with an optional bearer token.
func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// createTestUser registers a user through the API and returns the issued token.
func createTestUser(t *testing.T, router *gin.Engine, name string) string {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/user/create", "", gin.H{
		"user_name":      name,
		"leader_card_id": 1000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to create user %q: status %d, body %s", name, w.Code, w.Body.String())
	}
	var resp struct {
		UserToken string `json:"user_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode user create response: %v", err)
	}
	if resp.UserToken == "" {
		t.Fatalf("Empty token for user %q", name)
	}
	return resp.UserToken
}

// createTestRoom creates a room owned by the given token and returns its ID.
func createTestRoom(t *testing.T, router *gin.Engine, token string, liveID int) uint {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/room/create", token, gin.H{
		"live_id":           liveID,
		"select_difficulty": models.LiveDifficultyNormal,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to create room: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		RoomID uint `json:"room_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode room create response: %v", err)
	}
	return resp.RoomID
}

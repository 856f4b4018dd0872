package models

import (
	"time"
)

// ルームに同時に入れる人数の上限
const MaxRoomMemberCount = 4

// LiveDifficulty はライブの難易度を表します。
type LiveDifficulty int

const (
	LiveDifficultyNormal LiveDifficulty = 1
	LiveDifficultyHard   LiveDifficulty = 2
)

// JoinRoomResult は入室リクエストの結果を表します。
type JoinRoomResult int

const (
	JoinRoomResultOK         JoinRoomResult = 1 // 入場OK
	JoinRoomResultRoomFull   JoinRoomResult = 2 // 満員
	JoinRoomResultDisbanded  JoinRoomResult = 3 // 解散済み
	JoinRoomResultOtherError JoinRoomResult = 4 // その他エラー
)

// WaitRoomStatus は待機中ルームの状態を表します。
type WaitRoomStatus int

const (
	WaitRoomStatusWaiting     WaitRoomStatus = 1 // ホストがライブ開始ボタン押すのを待っている
	WaitRoomStatusLiveStart   WaitRoomStatus = 2 // ライブ画面遷移OK
	WaitRoomStatusDissolution WaitRoomStatus = 3 // 解散された
)

// Room モデルの定義
type Room struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	LiveID         int            `gorm:"not null;index:idx_room_status_live,priority:2" json:"live_id"`
	OwnerID        uint           `gorm:"not null" json:"owner_id"`
	WaitRoomStatus WaitRoomStatus `gorm:"not null;default:1;index:idx_room_status_live,priority:1" json:"wait_room_status"`
	CreatedAt      time.Time      `json:"-"`
	UpdatedAt      time.Time      `json:"-"` // クリーンナップ対象の判定に使用
}

func (Room) TableName() string {
	return "room"
}

// RoomMember は入室レコードです。score と judge_count_list は
// ライブ終了の報告があるまでNULLのままです。
type RoomMember struct {
	RoomID         uint           `gorm:"primaryKey;autoIncrement:false" json:"room_id"`
	MemberID       uint           `gorm:"primaryKey;autoIncrement:false" json:"member_id"`
	LiveDifficulty LiveDifficulty `gorm:"not null" json:"live_difficulty"`
	JudgeCountList *string        `json:"judge_count_list"` // JSON配列を文字列で保存
	Score          *int           `json:"score"`
}

func (RoomMember) TableName() string {
	return "room_member"
}

// RoomInfo はルーム一覧画面に返すルーム情報です。
type RoomInfo struct {
	RoomID          uint `json:"room_id"`
	LiveID          int  `json:"live_id"`
	JoinedUserCount int  `json:"joined_user_count"`
	MaxUserCount    int  `json:"max_user_count"`
}

// RoomUser はルーム待機画面に返すメンバー情報です。
type RoomUser struct {
	UserID           uint           `json:"user_id"`
	Name             string         `json:"name"`
	LeaderCardID     int            `json:"leader_card_id"`
	SelectDifficulty LiveDifficulty `json:"select_difficulty"`
	IsMe             bool           `json:"is_me"`
	IsHost           bool           `json:"is_host"`
}

// ResultUser はリザルト画面に返す1人分の成績です。
type ResultUser struct {
	UserID         uint  `json:"user_id"`
	JudgeCountList []int `json:"judge_count_list"`
	Score          int   `json:"score"`
}

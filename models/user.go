package models

// User モデルの定義
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Token        string `gorm:"unique;not null" json:"-"` // レスポンスには含めない
	LeaderCardID int    `gorm:"not null" json:"leader_card_id"`
}

// TableName はテーブル名を単数形の user に固定します（schema.sqlと合わせる）。
func (User) TableName() string {
	return "user"
}

// SafeUser はtokenを含まないユーザー情報です。
type SafeUser struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	LeaderCardID int    `json:"leader_card_id"`
}

// Safe はUserからtokenを除いたコピーを返します。
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:           u.ID,
		Name:         u.Name,
		LeaderCardID: u.LeaderCardID,
	}
}

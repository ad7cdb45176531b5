package user

import "time"

type User struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"column:username;size:64;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"column:email;size:255;uniqueIndex" json:"email,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

package model

import "time"

// User — учётная запись backend-а (email + bcrypt-хеш пароля).
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"not null;uniqueIndex"` // email
	Password string `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

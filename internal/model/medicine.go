package model

import "time"

// Medicine — серверная модель документа коллекции medicines.
type Medicine struct {
	ID    string `gorm:"primaryKey"`
	Name  string `gorm:"not null;index"`
	Stock int64  `gorm:"not null;default:0;index"`
	Aisle string `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

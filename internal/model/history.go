package model

import "time"

// History — запись журнала изменений (коллекция history). Только добавление.
type History struct {
	ID         string    `gorm:"primaryKey"`
	MedicineID string    `gorm:"not null;index"` // без внешнего ключа: ссылка не проверяется
	Actor      string    `gorm:"not null"`       // "user" зарезервировано в postgres
	Action     string    `gorm:"not null"`
	Details    string
	RecordedAt time.Time `gorm:"not null;index"`
}

// TableName фиксирует имя таблицы как у коллекции.
func (History) TableName() string { return "history" }

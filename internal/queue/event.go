// Package queue — события об изменениях документов и публикаторы для брокера.
package queue

import "time"

// Очереди событий (default exchange, routing key = имя очереди).
const (
	MedicineChangedQueue = "medistock.medicine.changed"
	HistoryRecordedQueue = "medistock.history.recorded"
)

// Виды изменений в MedicineChangedEvent.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// MedicineChangedEvent публикуется после успешной записи в коллекцию medicines.
type MedicineChangedEvent struct {
	MedicineID string         `json:"medicine_id"`
	Change     string         `json:"change"`
	Fields     map[string]any `json:"fields,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// HistoryRecordedEvent — в журнал добавлена запись.
type HistoryRecordedEvent struct {
	EntryID    string    `json:"entry_id"`
	MedicineID string    `json:"medicine_id"`
	User       string    `json:"user"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	Timestamp  time.Time `json:"timestamp"`
}

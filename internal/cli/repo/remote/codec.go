package remote

import (
	"MediStock/internal/cli/model"
	"encoding/json"
	"errors"
	"time"
)

var errIncomplete = errors.New("document is missing required fields")

type medicineDoc struct {
	Name  *string `json:"name"`
	Stock *int    `json:"stock"`
	Aisle *string `json:"aisle"`
}

type historyDoc struct {
	MedicineID *string    `json:"medicineId"`
	User       *string    `json:"user"`
	Action     *string    `json:"action"`
	Details    *string    `json:"details"`
	Timestamp  *time.Time `json:"timestamp"`
}

func medicineData(m model.Medicine) map[string]any {
	return map[string]any{"name": m.Name, "stock": m.Stock, "aisle": m.Aisle}
}

func historyData(e model.HistoryEntry) map[string]any {
	return map[string]any{
		"medicineId": e.MedicineID,
		"user":       e.User,
		"action":     e.Action,
		"details":    e.Details,
		"timestamp":  e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func decodeMedicine(id string, raw json.RawMessage) (model.Medicine, error) {
	var d medicineDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return model.Medicine{}, err
	}
	if d.Name == nil || d.Stock == nil || d.Aisle == nil {
		return model.Medicine{}, errIncomplete
	}
	return model.Medicine{ID: id, Name: *d.Name, Stock: *d.Stock, Aisle: *d.Aisle}, nil
}

func decodeHistory(id string, raw json.RawMessage) (model.HistoryEntry, error) {
	var d historyDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return model.HistoryEntry{}, err
	}
	if d.MedicineID == nil || d.User == nil || d.Action == nil || d.Details == nil || d.Timestamp == nil {
		return model.HistoryEntry{}, errIncomplete
	}
	return model.HistoryEntry{
		ID:         id,
		MedicineID: *d.MedicineID,
		User:       *d.User,
		Action:     *d.Action,
		Details:    *d.Details,
		Timestamp:  *d.Timestamp,
	}, nil
}

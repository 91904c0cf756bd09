package model

import (
	"fmt"
	"strings"
	"time"
)

// Medicine — позиция каталога. Пустой ID означает, что запись ещё не сохранена.
type Medicine struct {
	ID    string
	Name  string
	Stock int
	Aisle string
}

// HistoryEntry — запись журнала изменений медикамента. Только добавляется.
type HistoryEntry struct {
	ID         string
	MedicineID string
	User       string // email или uid пользователя
	Action     string
	Details    string
	Timestamp  time.Time
}

// SortOption — поле сортировки списка медикаментов (по возрастанию).
type SortOption string

const (
	SortByName  SortOption = "name"
	SortByStock SortOption = "stock"
)

// ParseSortOption разбирает значение флага --sort.
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByName:
		return SortByName, nil
	case SortByStock:
		return SortByStock, nil
	}
	return "", fmt.Errorf("unknown sort option %q (want name|stock)", s)
}

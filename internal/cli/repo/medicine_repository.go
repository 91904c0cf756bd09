package repo

import (
	"MediStock/internal/cli/model"
	"context"
	"sort"
)

// Имена коллекций хранилища и действие журнала при добавлении.
const (
	MedicinesCollection = "medicines"
	HistoryCollection   = "history"

	ActionMedicineAdded = "Medicine added"
	SystemUser          = "system"
)

// MedicineRepository — доступ к каталогу медикаментов и журналу изменений.
// Все ошибки хранилища возвращаются как *NetworkError.
type MedicineRepository interface {
	// AddMedicine сохраняет копию m с новым id и пишет в журнал "Medicine added".
	AddMedicine(ctx context.Context, m model.Medicine, user string) error
	// UpdateMedicine обновляет name/stock/aisle. ErrMissingID, если id пустой.
	UpdateMedicine(ctx context.Context, m model.Medicine, user string) error
	DeleteMedicine(ctx context.Context, id string) error
	// FetchMedicines: пустой aisle/searchText — без фильтра; searchText ищется как префикс name.
	FetchMedicines(ctx context.Context, aisle, searchText string, showOnlyInStock bool, sortBy model.SortOption) ([]model.Medicine, error)
	FetchAisles(ctx context.Context) ([]string, error)
	UpdateStock(ctx context.Context, id string, newStock int) error
	// FetchHistory возвращает записи медикамента, новые сверху.
	FetchHistory(ctx context.Context, medicineID string) ([]model.HistoryEntry, error)
	AddHistory(ctx context.Context, entry model.HistoryEntry) error
}

// PrefixUpperBound — верхняя граница диапазона для поиска по префиксу.
const PrefixUpperBound = "\uf8ff"

// DistinctSorted убирает дубликаты и сортирует по возрастанию.
func DistinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	res := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	sort.Strings(res)
	return res
}

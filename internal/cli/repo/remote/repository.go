// Package remote реализует репозиторий медикаментов поверх документного HTTP API backend-а.
package remote

import (
	"MediStock/internal/cli/api"
	"MediStock/internal/cli/model"
	"MediStock/internal/cli/repo"
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository — production-реализация repo.MedicineRepository.
type Repository struct {
	client *api.Client
	logger *zap.SugaredLogger
	now    func() time.Time
	newID  func() string
}

var _ repo.MedicineRepository = (*Repository)(nil)

func New(client *api.Client, logger *zap.SugaredLogger) *Repository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Repository{
		client: client,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (r *Repository) AddMedicine(ctx context.Context, m model.Medicine, user string) error {
	m.ID = r.newID()
	if _, err := r.client.CreateDocument(ctx, repo.MedicinesCollection, m.ID, medicineData(m)); err != nil {
		return repo.Network("add medicine", err)
	}
	if user == "" {
		user = repo.SystemUser
	}
	return r.AddHistory(ctx, model.HistoryEntry{
		MedicineID: m.ID,
		User:       user,
		Action:     repo.ActionMedicineAdded,
		Details:    "Added " + m.Name,
		Timestamp:  r.now(),
	})
}

func (r *Repository) UpdateMedicine(ctx context.Context, m model.Medicine, user string) error {
	if m.ID == "" {
		return repo.ErrMissingID
	}
	if err := r.client.MergeDocument(ctx, repo.MedicinesCollection, m.ID, medicineData(m)); err != nil {
		return repo.Network("update medicine", err)
	}
	return nil
}

func (r *Repository) DeleteMedicine(ctx context.Context, id string) error {
	if err := r.client.DeleteDocument(ctx, repo.MedicinesCollection, id); err != nil {
		return repo.Network("delete medicine", err)
	}
	return nil
}

func (r *Repository) FetchMedicines(ctx context.Context, aisle, searchText string, showOnlyInStock bool, sortBy model.SortOption) ([]model.Medicine, error) {
	q := api.Query{Filters: []api.Filter{}}
	if aisle != "" {
		q.Filters = append(q.Filters, api.Filter{Field: "aisle", Op: "==", Value: aisle})
	}
	if searchText != "" {
		q.Filters = append(q.Filters,
			api.Filter{Field: "name", Op: ">=", Value: searchText},
			api.Filter{Field: "name", Op: "<=", Value: searchText + repo.PrefixUpperBound},
		)
	}
	if showOnlyInStock {
		q.Filters = append(q.Filters, api.Filter{Field: "stock", Op: ">", Value: 0})
	}
	field := string(model.SortByName)
	if sortBy == model.SortByStock {
		field = string(model.SortByStock)
	}
	q.OrderBy = &api.Order{Field: field, Direction: "asc"}

	docs, err := r.client.Query(ctx, repo.MedicinesCollection, q)
	if err != nil {
		return nil, repo.Network("fetch medicines", err)
	}
	res := make([]model.Medicine, 0, len(docs))
	for _, d := range docs {
		m, err := decodeMedicine(d.ID, d.Data)
		if err != nil {
			r.logger.Warnw("dropping undecodable medicine", "id", d.ID, "error", err)
			continue
		}
		res = append(res, m)
	}
	return res, nil
}

func (r *Repository) FetchAisles(ctx context.Context) ([]string, error) {
	docs, err := r.client.Query(ctx, repo.MedicinesCollection, api.Query{})
	if err != nil {
		return nil, repo.Network("fetch aisles", err)
	}
	aisles := make([]string, 0, len(docs))
	for _, d := range docs {
		m, err := decodeMedicine(d.ID, d.Data)
		if err != nil {
			r.logger.Warnw("dropping undecodable medicine", "id", d.ID, "error", err)
			continue
		}
		aisles = append(aisles, m.Aisle)
	}
	return repo.DistinctSorted(aisles), nil
}

func (r *Repository) UpdateStock(ctx context.Context, id string, newStock int) error {
	if err := r.client.MergeDocument(ctx, repo.MedicinesCollection, id, map[string]any{"stock": newStock}); err != nil {
		return repo.Network("update stock", err)
	}
	return nil
}

func (r *Repository) FetchHistory(ctx context.Context, medicineID string) ([]model.HistoryEntry, error) {
	docs, err := r.client.Query(ctx, repo.HistoryCollection, api.Query{
		Filters: []api.Filter{{Field: "medicineId", Op: "==", Value: medicineID}},
		OrderBy: &api.Order{Field: "timestamp", Direction: "desc"},
	})
	if err != nil {
		return nil, repo.Network("fetch history", err)
	}
	res := make([]model.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		e, err := decodeHistory(d.ID, d.Data)
		if err != nil {
			r.logger.Warnw("dropping undecodable history entry", "id", d.ID, "error", err)
			continue
		}
		res = append(res, e)
	}
	return res, nil
}

func (r *Repository) AddHistory(ctx context.Context, entry model.HistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now()
	}
	if _, err := r.client.CreateDocument(ctx, repo.HistoryCollection, entry.ID, historyData(entry)); err != nil {
		return repo.Network("add history", err)
	}
	return nil
}

// Package firestore — репозиторий медикаментов поверх Cloud Firestore.
// Коллекции и имена полей совпадают с документным API backend-а.
package firestore

import (
	"MediStock/internal/cli/model"
	"MediStock/internal/cli/repo"
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type medicineDoc struct {
	Name  string `firestore:"name"`
	Stock int64  `firestore:"stock"`
	Aisle string `firestore:"aisle"`
}

type historyDoc struct {
	MedicineID string    `firestore:"medicineId"`
	User       string    `firestore:"user"`
	Action     string    `firestore:"action"`
	Details    string    `firestore:"details"`
	Timestamp  time.Time `firestore:"timestamp"`
}

// Repository — реализация repo.MedicineRepository на Firestore.
type Repository struct {
	Client *firestore.Client
	logger *zap.SugaredLogger
	now    func() time.Time
}

var _ repo.MedicineRepository = (*Repository)(nil)

// New подключается к проекту projectID. При заданном FIRESTORE_EMULATOR_HOST клиент идёт в эмулятор.
func New(ctx context.Context, projectID string, logger *zap.SugaredLogger) (*Repository, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("firestore: project id is empty")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return NewWithClient(client, logger), nil
}

func NewWithClient(client *firestore.Client, logger *zap.SugaredLogger) *Repository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Repository{Client: client, logger: logger, now: time.Now}
}

func (r *Repository) Close() error {
	return r.Client.Close()
}

func (r *Repository) medicines() *firestore.CollectionRef {
	return r.Client.Collection(repo.MedicinesCollection)
}

func (r *Repository) history() *firestore.CollectionRef {
	return r.Client.Collection(repo.HistoryCollection)
}

func (r *Repository) AddMedicine(ctx context.Context, m model.Medicine, user string) error {
	ref := r.medicines().NewDoc()
	if _, err := ref.Set(ctx, medicineDoc{Name: m.Name, Stock: int64(m.Stock), Aisle: m.Aisle}); err != nil {
		return repo.Network("add medicine", err)
	}
	if user == "" {
		user = repo.SystemUser
	}
	return r.AddHistory(ctx, model.HistoryEntry{
		MedicineID: ref.ID,
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
	// MergeAll работает только с map
	data := map[string]any{"name": m.Name, "stock": int64(m.Stock), "aisle": m.Aisle}
	if _, err := r.medicines().Doc(m.ID).Set(ctx, data, firestore.MergeAll); err != nil {
		return repo.Network("update medicine", err)
	}
	return nil
}

func (r *Repository) DeleteMedicine(ctx context.Context, id string) error {
	if _, err := r.medicines().Doc(id).Delete(ctx); err != nil {
		return repo.Network("delete medicine", err)
	}
	return nil
}

func (r *Repository) FetchMedicines(ctx context.Context, aisle, searchText string, showOnlyInStock bool, sortBy model.SortOption) ([]model.Medicine, error) {
	q := r.medicines().Query
	if aisle != "" {
		q = q.Where("aisle", "==", aisle)
	}
	if searchText != "" {
		q = q.Where("name", ">=", searchText).Where("name", "<=", searchText+repo.PrefixUpperBound)
	}
	if showOnlyInStock {
		q = q.Where("stock", ">", 0)
	}
	if sortBy == model.SortByStock {
		q = q.OrderBy("stock", firestore.Asc)
	} else {
		q = q.OrderBy("name", firestore.Asc)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, repo.Network("fetch medicines", err)
	}
	return r.decodeMedicines(snaps), nil
}

func (r *Repository) FetchAisles(ctx context.Context) ([]string, error) {
	snaps, err := r.medicines().Documents(ctx).GetAll()
	if err != nil {
		return nil, repo.Network("fetch aisles", err)
	}
	meds := r.decodeMedicines(snaps)
	aisles := make([]string, 0, len(meds))
	for _, m := range meds {
		aisles = append(aisles, m.Aisle)
	}
	return repo.DistinctSorted(aisles), nil
}

func (r *Repository) UpdateStock(ctx context.Context, id string, newStock int) error {
	_, err := r.medicines().Doc(id).Update(ctx, []firestore.Update{{Path: "stock", Value: int64(newStock)}})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			r.logger.Warnw("stock update for missing medicine", "id", id)
		}
		return repo.Network("update stock", err)
	}
	return nil
}

func (r *Repository) FetchHistory(ctx context.Context, medicineID string) ([]model.HistoryEntry, error) {
	snaps, err := r.history().
		Where("medicineId", "==", medicineID).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, repo.Network("fetch history", err)
	}
	res := make([]model.HistoryEntry, 0, len(snaps))
	for _, s := range snaps {
		var d historyDoc
		if err := s.DataTo(&d); err != nil {
			r.logger.Warnw("dropping undecodable history entry", "id", s.Ref.ID, "error", err)
			continue
		}
		res = append(res, model.HistoryEntry{
			ID:         s.Ref.ID,
			MedicineID: d.MedicineID,
			User:       d.User,
			Action:     d.Action,
			Details:    d.Details,
			Timestamp:  d.Timestamp,
		})
	}
	return res, nil
}

func (r *Repository) AddHistory(ctx context.Context, entry model.HistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now()
	}
	ref := r.history().NewDoc()
	if entry.ID != "" {
		ref = r.history().Doc(entry.ID)
	}
	_, err := ref.Set(ctx, historyDoc{
		MedicineID: entry.MedicineID,
		User:       entry.User,
		Action:     entry.Action,
		Details:    entry.Details,
		Timestamp:  entry.Timestamp.UTC(),
	})
	if err != nil {
		return repo.Network("add history", err)
	}
	return nil
}

func (r *Repository) decodeMedicines(snaps []*firestore.DocumentSnapshot) []model.Medicine {
	res := make([]model.Medicine, 0, len(snaps))
	for _, s := range snaps {
		var d medicineDoc
		if err := s.DataTo(&d); err != nil {
			r.logger.Warnw("dropping undecodable medicine", "id", s.Ref.ID, "error", err)
			continue
		}
		res = append(res, model.Medicine{ID: s.Ref.ID, Name: d.Name, Stock: int(d.Stock), Aisle: d.Aisle})
	}
	return res
}

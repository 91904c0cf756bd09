package repo

import (
	"MediStock/internal/model"
	"context"

	"gorm.io/gorm"
)

// HistoryRepository — журнал изменений. Только вставка и чтение.
type HistoryRepository interface {
	Create(ctx context.Context, h *model.History) error
	Find(ctx context.Context, conds []Condition, order *Ordering) ([]model.History, error)
}

type historyRepo struct {
	db *gorm.DB
}

// NewHistoryRepository создаёт gorm-реализацию HistoryRepository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Create(ctx context.Context, h *model.History) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historyRepo) Find(ctx context.Context, conds []Condition, order *Ordering) ([]model.History, error) {
	tx, err := applyQuery(r.db.WithContext(ctx).Model(&model.History{}), conds, order)
	if err != nil {
		return nil, err
	}
	var res []model.History
	if err := tx.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

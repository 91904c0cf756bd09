package repo

import (
	"MediStock/internal/model"
	"context"

	"gorm.io/gorm"
)

// MedicineRepository — хранилище документов коллекции medicines.
type MedicineRepository interface {
	Create(ctx context.Context, m *model.Medicine) error

	// Update частично обновляет запись (merge). Возвращает gorm.ErrRecordNotFound, если id нет.
	Update(ctx context.Context, id string, updates map[string]any) error

	// Delete удаляет запись; отсутствие записи ошибкой не считается.
	Delete(ctx context.Context, id string) error

	Find(ctx context.Context, conds []Condition, order *Ordering) ([]model.Medicine, error)
}

type medicineRepo struct {
	db *gorm.DB
}

// NewMedicineRepository создаёт gorm-реализацию MedicineRepository.
func NewMedicineRepository(db *gorm.DB) MedicineRepository {
	return &medicineRepo{db: db}
}

func (r *medicineRepo) Create(ctx context.Context, m *model.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *medicineRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&model.Medicine{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		// Updates с теми же значениями в sqlite всё равно затрагивает строку (updated_at),
		// так что 0 означает отсутствие записи
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *medicineRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Medicine{}).Error
}

func (r *medicineRepo) Find(ctx context.Context, conds []Condition, order *Ordering) ([]model.Medicine, error) {
	tx, err := applyQuery(r.db.WithContext(ctx).Model(&model.Medicine{}), conds, order)
	if err != nil {
		return nil, err
	}
	var res []model.Medicine
	if err := tx.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

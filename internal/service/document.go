package service

import (
	"MediStock/internal/model"
	"MediStock/internal/queue"
	"MediStock/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidField      = errors.New("invalid field")
	ErrInvalidValue      = errors.New("invalid value")
	ErrReadOnly          = errors.New("collection is append-only")
	ErrNotFound          = errors.New("document not found")
)

// Filter — условие запроса в терминах полей документа.
type Filter struct {
	Field string
	Op    string // ==, <, <=, >, >=
	Value any
}

// Order — сортировка по полю документа.
type Order struct {
	Field string
	Desc  bool
}

// Query — запрос к коллекции: AND всех фильтров и необязательная сортировка.
type Query struct {
	Filters []Filter
	OrderBy *Order
}

// Document — документ коллекции в том виде, в каком его видит клиент.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentService реализует документное API поверх таблиц medicines и history.
// После успешной записи публикует событие в очередь; ошибки публикации только логируются.
type DocumentService struct {
	medicines repo.MedicineRepository
	history   repo.HistoryRepository
	publisher queue.Publisher
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewDocumentService(m repo.MedicineRepository, h repo.HistoryRepository, p queue.Publisher, logger *zap.SugaredLogger) *DocumentService {
	if p == nil {
		p = queue.NopPublisher{}
	}
	return &DocumentService{
		medicines: m,
		history:   h,
		publisher: p,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create сохраняет новый документ. Пустой id заменяется на сгенерированный uuid.
func (s *DocumentService) Create(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	fields, err := fieldsOf(collection)
	if err != nil {
		return "", err
	}
	cols, err := columns(fields, data)
	if err != nil {
		return "", err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}

	switch collection {
	case CollectionMedicines:
		m := &model.Medicine{ID: id}
		m.Name, _ = cols["name"].(string)
		m.Aisle, _ = cols["aisle"].(string)
		m.Stock, _ = cols["stock"].(int64)
		if strings.TrimSpace(m.Name) == "" {
			return "", fmt.Errorf("%w: name is required", ErrInvalidValue)
		}
		if err := s.medicines.Create(ctx, m); err != nil {
			return "", err
		}
		s.publish(ctx, queue.MedicineChangedQueue, queue.MedicineChangedEvent{
			MedicineID: id,
			Change:     queue.ChangeCreated,
			Fields:     data,
			OccurredAt: s.now(),
		})
	case CollectionHistory:
		h := &model.History{ID: id}
		h.MedicineID, _ = cols["medicine_id"].(string)
		h.Actor, _ = cols["actor"].(string)
		h.Action, _ = cols["action"].(string)
		h.Details, _ = cols["details"].(string)
		if ts, ok := cols["recorded_at"].(time.Time); ok {
			h.RecordedAt = ts
		} else {
			h.RecordedAt = s.now()
		}
		if h.MedicineID == "" {
			return "", fmt.Errorf("%w: medicineId is required", ErrInvalidValue)
		}
		if err := s.history.Create(ctx, h); err != nil {
			return "", err
		}
		s.publish(ctx, queue.HistoryRecordedQueue, queue.HistoryRecordedEvent{
			EntryID:    id,
			MedicineID: h.MedicineID,
			User:       h.Actor,
			Action:     h.Action,
			Details:    h.Details,
			Timestamp:  h.RecordedAt,
		})
	}
	return id, nil
}

// Merge обновляет только переданные поля документа.
func (s *DocumentService) Merge(ctx context.Context, collection, id string, data map[string]any) error {
	fields, err := fieldsOf(collection)
	if err != nil {
		return err
	}
	if collection == CollectionHistory {
		return ErrReadOnly
	}
	cols, err := columns(fields, data)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}
	if name, ok := cols["name"].(string); ok && strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidValue)
	}

	if err := s.medicines.Update(ctx, id, cols); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(ctx, queue.MedicineChangedQueue, queue.MedicineChangedEvent{
		MedicineID: id,
		Change:     queue.ChangeUpdated,
		Fields:     data,
		OccurredAt: s.now(),
	})
	return nil
}

// Delete удаляет документ; удаление отсутствующего документа не ошибка.
func (s *DocumentService) Delete(ctx context.Context, collection, id string) error {
	if _, err := fieldsOf(collection); err != nil {
		return err
	}
	if collection == CollectionHistory {
		return ErrReadOnly
	}
	if err := s.medicines.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, queue.MedicineChangedQueue, queue.MedicineChangedEvent{
		MedicineID: id,
		Change:     queue.ChangeDeleted,
		OccurredAt: s.now(),
	})
	return nil
}

// Query выполняет запрос к коллекции.
func (s *DocumentService) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	fields, err := fieldsOf(collection)
	if err != nil {
		return nil, err
	}

	conds := make([]repo.Condition, 0, len(q.Filters))
	for _, f := range q.Filters {
		def, ok := fields[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, f.Field)
		}
		op, ok := queryOps[f.Op]
		if !ok {
			return nil, fmt.Errorf("%w: operator %q", ErrInvalidField, f.Op)
		}
		v, err := coerce(f.Field, def.kind, f.Value)
		if err != nil {
			return nil, err
		}
		conds = append(conds, repo.Condition{Column: def.column, Op: op, Value: v})
	}

	var order *repo.Ordering
	if q.OrderBy != nil && q.OrderBy.Field != "" {
		def, ok := fields[q.OrderBy.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, q.OrderBy.Field)
		}
		order = &repo.Ordering{Column: def.column, Desc: q.OrderBy.Desc}
	}

	switch collection {
	case CollectionMedicines:
		rows, err := s.medicines.Find(ctx, conds, order)
		if err != nil {
			return nil, err
		}
		docs := make([]Document, 0, len(rows))
		for _, m := range rows {
			docs = append(docs, Document{ID: m.ID, Data: map[string]any{
				"name":  m.Name,
				"stock": m.Stock,
				"aisle": m.Aisle,
			}})
		}
		return docs, nil
	default:
		rows, err := s.history.Find(ctx, conds, order)
		if err != nil {
			return nil, err
		}
		docs := make([]Document, 0, len(rows))
		for _, h := range rows {
			docs = append(docs, Document{ID: h.ID, Data: map[string]any{
				"medicineId": h.MedicineID,
				"user":       h.Actor,
				"action":     h.Action,
				"details":    h.Details,
				"timestamp":  h.RecordedAt.UTC(),
			}})
		}
		return docs, nil
	}
}

func (s *DocumentService) publish(ctx context.Context, queueName string, event any) {
	if err := s.publisher.Publish(ctx, queueName, event); err != nil {
		s.logger.Warnw("event publish failed", "queue", queueName, "error", err)
	}
}

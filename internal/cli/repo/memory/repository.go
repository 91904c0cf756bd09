// Package memory — хранилище медикаментов в памяти процесса.
// Используется как тестовый дублёр с управляемыми отказами.
package memory

import (
	"MediStock/internal/cli/model"
	"MediStock/internal/cli/repo"
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"
)

// ErrInjected — ошибка, которую отдают все методы в режиме отказа.
var ErrInjected = errors.New("injected failure")

type Repository struct {
	mu        sync.Mutex
	medicines []model.Medicine
	history   []model.HistoryEntry
	failing   bool
	seq       int
	now       func() time.Time
	calls     map[string]int
}

var _ repo.MedicineRepository = (*Repository)(nil)

// New создаёт хранилище с начальными данными.
func New(medicines ...model.Medicine) *Repository {
	r := &Repository{now: time.Now, calls: map[string]int{}}
	for _, m := range medicines {
		if m.ID == "" {
			m.ID = r.nextID("med")
		}
		r.medicines = append(r.medicines, m)
	}
	return r
}

// SetFailing включает режим, в котором каждый вызов возвращает *repo.NetworkError.
func (r *Repository) SetFailing(failing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing = failing
}

// SetClock подменяет источник времени для записей журнала.
func (r *Repository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Calls — сколько раз вызывался метод.
func (r *Repository) Calls(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

// History возвращает копию всего журнала в порядке добавления.
func (r *Repository) History() []model.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.HistoryEntry(nil), r.history...)
}

// Medicines возвращает копию каталога в порядке добавления.
func (r *Repository) Medicines() []model.Medicine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Medicine(nil), r.medicines...)
}

func (r *Repository) nextID(prefix string) string {
	r.seq++
	return prefix + "-" + strconv.Itoa(r.seq)
}

// enter фиксирует вызов и проверяет режим отказа. Вызывается под mu.
func (r *Repository) enter(op string) error {
	r.calls[op]++
	if r.failing {
		return repo.Network(op, ErrInjected)
	}
	return nil
}

func (r *Repository) AddMedicine(_ context.Context, m model.Medicine, user string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("AddMedicine"); err != nil {
		return err
	}
	m.ID = r.nextID("med")
	r.medicines = append(r.medicines, m)
	if user == "" {
		user = repo.SystemUser
	}
	r.history = append(r.history, model.HistoryEntry{
		ID:         r.nextID("hist"),
		MedicineID: m.ID,
		User:       user,
		Action:     repo.ActionMedicineAdded,
		Details:    "Added " + m.Name,
		Timestamp:  r.now(),
	})
	return nil
}

func (r *Repository) UpdateMedicine(_ context.Context, m model.Medicine, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		r.calls["UpdateMedicine"]++
		return repo.ErrMissingID
	}
	if err := r.enter("UpdateMedicine"); err != nil {
		return err
	}
	for i := range r.medicines {
		if r.medicines[i].ID == m.ID {
			r.medicines[i] = m
			return nil
		}
	}
	return repo.Network("update medicine", errors.New("document not found"))
}

func (r *Repository) DeleteMedicine(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("DeleteMedicine"); err != nil {
		return err
	}
	kept := r.medicines[:0]
	for _, m := range r.medicines {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	r.medicines = kept
	return nil
}

func (r *Repository) FetchMedicines(_ context.Context, aisle, searchText string, showOnlyInStock bool, sortBy model.SortOption) ([]model.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("FetchMedicines"); err != nil {
		return nil, err
	}
	res := make([]model.Medicine, 0, len(r.medicines))
	for _, m := range r.medicines {
		if aisle != "" && m.Aisle != aisle {
			continue
		}
		if searchText != "" && !(m.Name >= searchText && m.Name <= searchText+repo.PrefixUpperBound) {
			continue
		}
		if showOnlyInStock && m.Stock <= 0 {
			continue
		}
		res = append(res, m)
	}
	sort.SliceStable(res, func(i, j int) bool {
		if sortBy == model.SortByStock {
			return res[i].Stock < res[j].Stock
		}
		return res[i].Name < res[j].Name
	})
	return res, nil
}

func (r *Repository) FetchAisles(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("FetchAisles"); err != nil {
		return nil, err
	}
	aisles := make([]string, 0, len(r.medicines))
	for _, m := range r.medicines {
		aisles = append(aisles, m.Aisle)
	}
	return repo.DistinctSorted(aisles), nil
}

func (r *Repository) UpdateStock(_ context.Context, id string, newStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("UpdateStock"); err != nil {
		return err
	}
	for i := range r.medicines {
		if r.medicines[i].ID == id {
			r.medicines[i].Stock = newStock
			return nil
		}
	}
	return repo.Network("update stock", errors.New("document not found"))
}

func (r *Repository) FetchHistory(_ context.Context, medicineID string) ([]model.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("FetchHistory"); err != nil {
		return nil, err
	}
	var res []model.HistoryEntry
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].MedicineID == medicineID {
			res = append(res, r.history[i])
		}
	}
	// новые сверху; при равном времени выше позже добавленные
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.After(res[j].Timestamp) })
	return res, nil
}

func (r *Repository) AddHistory(_ context.Context, entry model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("AddHistory"); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = r.nextID("hist")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now()
	}
	r.history = append(r.history, entry)
	return nil
}

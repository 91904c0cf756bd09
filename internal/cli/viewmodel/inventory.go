package viewmodel

import (
	"MediStock/internal/cli/model"
	"MediStock/internal/cli/repo"
	"context"
	"fmt"
	"sync"
	"time"
)

// Запасные сообщения об ошибках по операциям.
const (
	MsgLoadMedicines = "failed to load medicines"
	MsgLoadAisles    = "failed to load aisles"
	MsgLoadHistory   = "failed to load history"
	MsgUnexpected    = "unexpected error"

	ActionSetStock = "Set stock"
)

// InventoryState — снимок состояния каталога.
type InventoryState struct {
	Medicines  []model.Medicine
	Aisles     []string
	History    []model.HistoryEntry
	HistoryFor string // id медикамента, к которому относится History

	SelectedAisle   string
	SearchText      string
	ShowOnlyInStock bool
	SortBy          model.SortOption

	ErrorMessage string // пусто, если ошибки нет
}

func (s InventoryState) clone() InventoryState {
	s.Medicines = append([]model.Medicine(nil), s.Medicines...)
	s.Aisles = append([]string(nil), s.Aisles...)
	s.History = append([]model.HistoryEntry(nil), s.History...)
	return s
}

// InventoryViewModel — операции над каталогом. Ошибки репозитория не пробрасываются
// наверх как есть: они приводятся к тексту и пишутся в ErrorMessage, а прежние списки сохраняются.
// Возвращаемая ошибка дублирует ErrorMessage для вызывающих, которым нужен код выхода.
type InventoryViewModel struct {
	repo repo.MedicineRepository
	now  func() time.Time

	mu    sync.Mutex
	state InventoryState
	subs  observable[InventoryState]
}

func NewInventoryViewModel(r repo.MedicineRepository) *InventoryViewModel {
	return &InventoryViewModel{
		repo:  r,
		now:   time.Now,
		state: InventoryState{SortBy: model.SortByName},
	}
}

// State возвращает копию текущего состояния.
func (vm *InventoryViewModel) State() InventoryState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state.clone()
}

// Subscribe подписывает fn на снимки состояния после каждого изменения.
func (vm *InventoryViewModel) Subscribe(fn func(InventoryState)) func() {
	return vm.subs.Subscribe(fn)
}

func (vm *InventoryViewModel) update(fn func(s *InventoryState)) {
	vm.mu.Lock()
	fn(&vm.state)
	snap := vm.state.clone()
	vm.mu.Unlock()
	vm.subs.publish(snap)
}

func (vm *InventoryViewModel) fail(err error, fallback string) error {
	d := repo.Normalize(err, fallback)
	vm.update(func(s *InventoryState) { s.ErrorMessage = d.Description() })
	return d
}

func (vm *InventoryViewModel) SetSelectedAisle(aisle string) {
	vm.update(func(s *InventoryState) { s.SelectedAisle = aisle })
}

func (vm *InventoryViewModel) SetSearchText(text string) {
	vm.update(func(s *InventoryState) { s.SearchText = text })
}

func (vm *InventoryViewModel) SetShowOnlyInStock(v bool) {
	vm.update(func(s *InventoryState) { s.ShowOnlyInStock = v })
}

func (vm *InventoryViewModel) SetSortBy(sortBy model.SortOption) {
	vm.update(func(s *InventoryState) { s.SortBy = sortBy })
}

// ClearError сбрасывает текущее сообщение об ошибке.
func (vm *InventoryViewModel) ClearError() {
	vm.update(func(s *InventoryState) { s.ErrorMessage = "" })
}

// Medicine ищет медикамент в текущем списке.
func (vm *InventoryViewModel) Medicine(id string) (model.Medicine, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	for _, m := range vm.state.Medicines {
		if m.ID == id {
			return m, true
		}
	}
	return model.Medicine{}, false
}

// LoadMedicines перечитывает список с текущими фильтрами и сортировкой.
func (vm *InventoryViewModel) LoadMedicines(ctx context.Context) error {
	st := vm.State()
	meds, err := vm.repo.FetchMedicines(ctx, st.SelectedAisle, st.SearchText, st.ShowOnlyInStock, st.SortBy)
	if err != nil {
		return vm.fail(err, MsgLoadMedicines)
	}
	vm.update(func(s *InventoryState) { s.Medicines = meds })
	return nil
}

func (vm *InventoryViewModel) LoadAisles(ctx context.Context) error {
	aisles, err := vm.repo.FetchAisles(ctx)
	if err != nil {
		return vm.fail(err, MsgLoadAisles)
	}
	vm.update(func(s *InventoryState) { s.Aisles = aisles })
	return nil
}

func (vm *InventoryViewModel) LoadHistory(ctx context.Context, medicineID string) error {
	hist, err := vm.repo.FetchHistory(ctx, medicineID)
	if err != nil {
		return vm.fail(err, MsgLoadHistory)
	}
	vm.update(func(s *InventoryState) {
		s.History = hist
		s.HistoryFor = medicineID
	})
	return nil
}

func (vm *InventoryViewModel) AddMedicine(ctx context.Context, m model.Medicine, user string) error {
	if err := vm.repo.AddMedicine(ctx, m, user); err != nil {
		return vm.fail(err, MsgUnexpected)
	}
	return vm.LoadMedicines(ctx)
}

func (vm *InventoryViewModel) UpdateMedicine(ctx context.Context, m model.Medicine, user string) error {
	if err := vm.repo.UpdateMedicine(ctx, m, user); err != nil {
		return vm.fail(err, MsgUnexpected)
	}
	return vm.LoadMedicines(ctx)
}

// DeleteMedicine ничего не делает для несохранённого медикамента.
func (vm *InventoryViewModel) DeleteMedicine(ctx context.Context, m model.Medicine) error {
	if m.ID == "" {
		return nil
	}
	if err := vm.repo.DeleteMedicine(ctx, m.ID); err != nil {
		return vm.fail(err, MsgUnexpected)
	}
	return vm.LoadMedicines(ctx)
}

// UpdateStock записывает остаток. Запись в журнал и перечитывание журнала —
// только если значение действительно изменилось.
func (vm *InventoryViewModel) UpdateStock(ctx context.Context, m model.Medicine, newStock int, user string) error {
	if m.ID == "" {
		return nil
	}
	if err := vm.repo.UpdateStock(ctx, m.ID, newStock); err != nil {
		return vm.fail(err, MsgUnexpected)
	}

	var histErr error
	if newStock != m.Stock {
		entry := model.HistoryEntry{
			MedicineID: m.ID,
			User:       user,
			Action:     ActionSetStock,
			Details:    fmt.Sprintf("Stock from %d to %d", m.Stock, newStock),
			Timestamp:  vm.now(),
		}
		if err := vm.repo.AddHistory(ctx, entry); err != nil {
			histErr = vm.fail(err, MsgUnexpected)
		} else {
			histErr = vm.LoadHistory(ctx, m.ID)
		}
	}

	if err := vm.LoadMedicines(ctx); err != nil {
		return err
	}
	return histErr
}

// SaveChanges применяет форму редактирования: имя и проход через UpdateMedicine,
// затем остаток (не меньше нуля) через UpdateStock.
func (vm *InventoryViewModel) SaveChanges(ctx context.Context, m model.Medicine, name, aisle string, stock int, user string) error {
	if stock < 0 {
		stock = 0
	}
	updated := m
	updated.Name = name
	updated.Aisle = aisle
	if err := vm.UpdateMedicine(ctx, updated, user); err != nil {
		return err
	}
	return vm.UpdateStock(ctx, updated, stock, user)
}

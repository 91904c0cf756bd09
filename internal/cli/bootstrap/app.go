// Package bootstrap собирает зависимости CLI: хранилище токена, клиент API,
// провайдер аутентификации, репозиторий медикаментов и модели представления.
package bootstrap

import (
	"MediStock/internal/cli/api"
	"MediStock/internal/cli/auth"
	"MediStock/internal/cli/model"
	"MediStock/internal/cli/repo"
	fsrepo "MediStock/internal/cli/repo/fs"
	firestorerepo "MediStock/internal/cli/repo/firestore"
	"MediStock/internal/cli/repo/remote"
	"MediStock/internal/cli/viewmodel"
	"MediStock/internal/config"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const httpTimeout = 15 * time.Second

// App — собранный клиент.
type App struct {
	Logger    *zap.SugaredLogger
	Provider  *auth.RemoteProvider
	Session   *viewmodel.SessionStore
	Inventory *viewmodel.InventoryViewModel
	Backend   string

	restoreErr error // сессию не удалось проверить: сервер недоступен
}

// User возвращает вошедшего пользователя или auth.ErrNotSignedIn.
func (a *App) User() (*model.User, error) {
	u := a.Session.State().Session
	if u == nil && a.restoreErr != nil {
		return nil, a.restoreErr
	}
	if u == nil {
		return nil, fmt.Errorf("%w: run login or register first", auth.ErrNotSignedIn)
	}
	return u, nil
}

// NewLogger — тихий логгер, если не включён debug.
func NewLogger(debug bool) *zap.SugaredLogger {
	if !debug {
		return zap.NewNop().Sugar()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Open собирает App и восстанавливает сессию по сохранённому токену.
// Недоступный сервер не мешает запуску: App остаётся без сессии, а ошибка
// восстановления возвращается из User. cleanup нужно вызвать по завершении; повторный вызов безопасен.
func Open(ctx context.Context, cfg *config.Config) (*App, func() error, error) {
	logger := NewLogger(cfg.Debug)

	store := fsrepo.AuthFSStore{Dir: cfg.ConfigDir}
	client := api.NewClient(cfg.ServerURL, &http.Client{Timeout: httpTimeout}, store)
	provider := auth.NewRemoteProvider(client, store, store, logger)

	session := viewmodel.NewSessionStore(provider)
	session.Listen()

	medicines, closeRepo, err := openRepository(ctx, cfg, client, logger)
	if err != nil {
		_ = session.Close()
		return nil, nil, err
	}

	closed := false
	cleanup := func() error {
		if closed {
			return nil
		}
		closed = true
		_ = session.Close()
		_ = logger.Sync()
		return closeRepo()
	}

	app := &App{
		Logger:    logger,
		Provider:  provider,
		Session:   session,
		Inventory: viewmodel.NewInventoryViewModel(medicines),
		Backend:   cfg.Backend,
	}
	if _, err := provider.Restore(ctx); err != nil {
		logger.Warnw("session restore failed, continuing without session", "error", err)
		app.restoreErr = err
	}

	logger.Debugw("client ready", "backend", cfg.Backend, "server", cfg.ServerURL)
	return app, cleanup, nil
}

func openRepository(ctx context.Context, cfg *config.Config, client *api.Client, logger *zap.SugaredLogger) (repo.MedicineRepository, func() error, error) {
	switch cfg.Backend {
	case config.BackendFirestore:
		r, err := firestorerepo.New(ctx, cfg.FirestoreProject, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open firestore: %w", err)
		}
		return r, r.Close, nil
	default:
		return remote.New(client, logger), func() error { return nil }, nil
	}
}

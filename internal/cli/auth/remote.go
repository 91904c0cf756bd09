package auth

import (
	"MediStock/internal/cli/api"
	"MediStock/internal/cli/model"
	"MediStock/internal/cli/repo"
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// RemoteProvider — Provider поверх auth API backend-а.
// Токен хранится в TokenStore, последний логин — в UserContextStore.
type RemoteProvider struct {
	client *api.Client
	tokens repo.TokenStore
	logins repo.UserContextStore
	logger *zap.SugaredLogger

	mu        sync.Mutex
	current   *model.User
	listeners map[Handle]Listener
	next      Handle
}

var _ Provider = (*RemoteProvider)(nil)

func NewRemoteProvider(client *api.Client, tokens repo.TokenStore, logins repo.UserContextStore, logger *zap.SugaredLogger) *RemoteProvider {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RemoteProvider{
		client:    client,
		tokens:    tokens,
		logins:    logins,
		logger:    logger,
		listeners: map[Handle]Listener{},
	}
}

// Restore восстанавливает сессию по сохранённому токену.
// Отвергнутый сервером токен удаляется; сетевые ошибки возвращаются.
func (p *RemoteProvider) Restore(ctx context.Context) (*model.User, error) {
	if tok, err := p.tokens.Load(); err != nil || tok == "" {
		p.setUser(nil)
		return nil, nil
	}
	dto, err := p.client.Me(ctx)
	if api.IsStatus(err, http.StatusUnauthorized) {
		if err := p.tokens.Clear(); err != nil {
			p.logger.Warnw("failed to clear rejected token", "error", err)
		}
		p.setUser(nil)
		return nil, nil
	}
	if err != nil {
		return nil, describe(err)
	}
	u := &model.User{UID: dto.UID, Email: dto.Email}
	p.setUser(u)
	return u, nil
}

func (p *RemoteProvider) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	dto, token, err := p.client.Register(ctx, email, password)
	if err != nil {
		return nil, describe(err)
	}
	return p.startSession(dto, token)
}

func (p *RemoteProvider) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	dto, token, err := p.client.Login(ctx, email, password)
	if err != nil {
		return nil, describe(err)
	}
	return p.startSession(dto, token)
}

func (p *RemoteProvider) startSession(dto api.UserDTO, token string) (*model.User, error) {
	if err := p.tokens.Save(token); err != nil {
		return nil, &Error{Message: "failed to store session", Err: err}
	}
	if p.logins != nil && dto.Email != "" {
		if err := p.logins.SaveLogin(dto.Email); err != nil {
			p.logger.Warnw("failed to save last login", "error", err)
		}
	}
	u := &model.User{UID: dto.UID, Email: dto.Email}
	p.setUser(u)
	return u, nil
}

// SignOut завершает сессию. Сбой запроса к серверу только логируется: cookie всё равно удаляется локально.
func (p *RemoteProvider) SignOut(ctx context.Context) error {
	if err := p.client.Logout(ctx); err != nil {
		p.logger.Warnw("server logout failed", "error", err)
	}
	if err := p.tokens.Clear(); err != nil {
		return &Error{Message: "failed to clear session", Err: err}
	}
	p.setUser(nil)
	return nil
}

// LastEmail — email последнего входа на этой машине; пусто, если входа не было.
func (p *RemoteProvider) LastEmail() string {
	email, err := p.logins.LoadLogin()
	if err != nil {
		return ""
	}
	return email
}

func (p *RemoteProvider) CurrentUser() *model.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyUser(p.current)
}

func (p *RemoteProvider) AddStateDidChangeListener(fn Listener) Handle {
	p.mu.Lock()
	p.next++
	h := p.next
	p.listeners[h] = fn
	current := copyUser(p.current)
	p.mu.Unlock()

	fn(current)
	return h
}

func (p *RemoteProvider) RemoveStateDidChangeListener(h Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.listeners, h)
}

// setUser меняет пользователя и уведомляет слушателей вне блокировки.
func (p *RemoteProvider) setUser(u *model.User) {
	p.mu.Lock()
	p.current = copyUser(u)
	fns := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(copyUser(u))
	}
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

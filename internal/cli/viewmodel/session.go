package viewmodel

import (
	"MediStock/internal/cli/auth"
	"MediStock/internal/cli/model"
	"MediStock/internal/cli/repo"
	"context"
	"sync"
)

// MsgAuthFailed — запасной текст для ошибок входа без описания.
const MsgAuthFailed = "authentication failed"

// SessionState — текущий пользователь и последняя ошибка аутентификации.
type SessionState struct {
	Session   *model.User
	AuthError string
}

// SessionStore держит сессию в синхроне с провайдером.
// Session меняет только слушатель провайдера; исключение — SignOut, который
// обнуляет её сразу после успешного выхода.
type SessionStore struct {
	provider auth.Provider

	bindMu    sync.Mutex
	handle    auth.Handle
	listening bool

	mu    sync.Mutex
	state SessionState
	subs  observable[SessionState]
}

func NewSessionStore(p auth.Provider) *SessionStore {
	return &SessionStore{provider: p}
}

func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	return s.subs.Subscribe(fn)
}

func (s *SessionStore) update(fn func(st *SessionState)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state
	s.mu.Unlock()
	s.subs.publish(snap)
}

// Listen подписывается на провайдер. Повторный вызов ничего не делает.
func (s *SessionStore) Listen() {
	s.bindMu.Lock()
	defer s.bindMu.Unlock()
	if s.listening {
		return
	}
	s.listening = true
	s.handle = s.provider.AddStateDidChangeListener(func(u *model.User) {
		s.update(func(st *SessionState) { st.Session = u })
	})
}

// Unbind снимает подписку, если она есть.
func (s *SessionStore) Unbind() {
	s.bindMu.Lock()
	defer s.bindMu.Unlock()
	if !s.listening {
		return
	}
	s.provider.RemoveStateDidChangeListener(s.handle)
	s.listening = false
}

func (s *SessionStore) Close() error {
	s.Unbind()
	return nil
}

func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	s.update(func(st *SessionState) { st.AuthError = "" })
	if _, err := s.provider.SignIn(ctx, email, password); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *SessionStore) SignUp(ctx context.Context, email, password string) error {
	s.update(func(st *SessionState) { st.AuthError = "" })
	if _, err := s.provider.SignUp(ctx, email, password); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *SessionStore) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return s.fail(err)
	}
	s.update(func(st *SessionState) { st.Session = nil })
	return nil
}

func (s *SessionStore) fail(err error) error {
	d := repo.Normalize(err, MsgAuthFailed)
	s.update(func(st *SessionState) { st.AuthError = d.Description() })
	return d
}

// Package auth — провайдер аутентификации CLI с подпиской на смену пользователя.
package auth

import (
	"MediStock/internal/cli/api"
	"MediStock/internal/cli/model"
	"context"
	"errors"
	"net/http"
)

// Handle — регистрация слушателя; нужна для отписки.
type Handle int

// Listener получает текущего пользователя или nil после выхода.
type Listener func(user *model.User)

// Provider — источник сессии пользователя.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.User, error)
	SignOut(ctx context.Context) error
	CurrentUser() *model.User
	// AddStateDidChangeListener сразу вызывает fn с текущим пользователем,
	// затем при каждой смене сессии.
	AddStateDidChangeListener(fn Listener) Handle
	RemoveStateDidChangeListener(h Handle)
}

// Error — ошибка аутентификации с текстом для пользователя.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Description() string { return e.Message }

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already registered")
	ErrNotSignedIn        = errors.New("not signed in")
)

// describe переводит ответ backend-а в ошибку с понятным текстом.
func describe(err error) error {
	switch {
	case err == nil:
		return nil
	case api.IsStatus(err, http.StatusUnauthorized):
		return &Error{Message: ErrInvalidCredentials.Error(), Err: ErrInvalidCredentials}
	case api.IsStatus(err, http.StatusConflict):
		return &Error{Message: ErrEmailInUse.Error(), Err: ErrEmailInUse}
	case api.IsStatus(err, http.StatusBadRequest):
		return &Error{Message: "email and password are required", Err: err}
	default:
		return &Error{Message: "server connection problem, try again later", Err: err}
	}
}

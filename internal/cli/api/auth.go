package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// UserDTO — пользователь в ответах auth API.
type UserDTO struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register создаёт учётную запись и возвращает пользователя и токен сессии.
func (c *Client) Register(ctx context.Context, email, password string) (UserDTO, string, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

// Login выполняет вход и возвращает пользователя и токен сессии.
func (c *Client) Login(ctx context.Context, email, password string) (UserDTO, string, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (UserDTO, string, error) {
	resp, body, err := DoJSON(ctx, c.http, http.MethodPost, c.baseURL+path, credentials{Email: email, Password: password}, "")
	if err != nil {
		return UserDTO{}, "", err
	}
	if err := checkStatus(resp, body, http.StatusOK); err != nil {
		return UserDTO{}, "", err
	}
	token, err := TokenFromResponse(resp)
	if err != nil {
		return UserDTO{}, "", err
	}
	var u UserDTO
	if err := json.Unmarshal(body, &u); err != nil {
		return UserDTO{}, "", err
	}
	return u, token, nil
}

// Logout завершает сессию на сервере.
func (c *Client) Logout(ctx context.Context) error {
	resp, body, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, body, http.StatusNoContent, http.StatusOK)
}

// Me возвращает пользователя текущего токена.
func (c *Client) Me(ctx context.Context) (UserDTO, error) {
	resp, body, err := c.do(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return UserDTO{}, err
	}
	if err := checkStatus(resp, body, http.StatusOK); err != nil {
		return UserDTO{}, err
	}
	var u UserDTO
	if err := json.Unmarshal(body, &u); err != nil {
		return UserDTO{}, err
	}
	return u, nil
}

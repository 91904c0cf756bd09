package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CookieName — имя cookie с токеном сессии.
const CookieName = "auth_token"

// StatusError — ответ backend-а с неуспешным HTTP-статусом.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// IsStatus сообщает, что err — StatusError с указанным кодом.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// DoJSON отправляет JSON-запрос. Непустой token передаётся как auth cookie.
// payload == nil означает запрос без тела.
func DoJSON(ctx context.Context, client *http.Client, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, b, nil
}

// TokenFromResponse извлекает auth cookie из ответа.
func TokenFromResponse(resp *http.Response) (string, error) {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", errors.New("no auth cookie in response")
}

func checkStatus(resp *http.Response, body []byte, want ...int) error {
	for _, code := range want {
		if resp.StatusCode == code {
			return nil
		}
	}
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

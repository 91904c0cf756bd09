package api

import (
	"context"
	"net/http"
	"strings"
)

// TokenSource отдаёт текущий токен сессии.
type TokenSource interface {
	Load() (string, error)
}

// Client — HTTP-клиент backend-а MediStock.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient создаёт клиента. tokens может быть nil — тогда запросы анонимные.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	tok, err := c.tokens.Load()
	if err != nil {
		return ""
	}
	return tok
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, []byte, error) {
	return DoJSON(ctx, c.http, method, c.baseURL+path, payload, c.token())
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Filter — условие запроса к коллекции.
type Filter struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

// Order — сортировка результата.
type Order struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Query — запрос к коллекции.
type Query struct {
	Filters []Filter `json:"filters"`
	OrderBy *Order   `json:"order_by,omitempty"`
}

// Document — документ коллекции; Data декодируется вызывающей стороной.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

func collectionPath(collection string) string {
	return "/api/collections/" + url.PathEscape(collection)
}

// CreateDocument сохраняет документ и возвращает его id. Пустой id назначит сервер.
func (c *Client) CreateDocument(ctx context.Context, collection, id string, data any) (string, error) {
	payload := struct {
		ID   string `json:"id,omitempty"`
		Data any    `json:"data"`
	}{ID: id, Data: data}

	resp, body, err := c.do(ctx, http.MethodPost, collectionPath(collection)+"/documents", payload)
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp, body, http.StatusCreated); err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// MergeDocument обновляет только переданные поля документа.
func (c *Client) MergeDocument(ctx context.Context, collection, id string, data any) error {
	payload := struct {
		Data any `json:"data"`
	}{Data: data}
	resp, body, err := c.do(ctx, http.MethodPatch, collectionPath(collection)+"/documents/"+url.PathEscape(id), payload)
	if err != nil {
		return err
	}
	return checkStatus(resp, body, http.StatusNoContent, http.StatusOK)
}

// DeleteDocument удаляет документ по id.
func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	resp, body, err := c.do(ctx, http.MethodDelete, collectionPath(collection)+"/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, body, http.StatusNoContent, http.StatusOK)
}

// Query выполняет запрос к коллекции.
func (c *Client) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	if q.Filters == nil {
		q.Filters = []Filter{}
	}
	resp, body, err := c.do(ctx, http.MethodPost, collectionPath(collection)+"/query", q)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, body, http.StatusOK); err != nil {
		return nil, err
	}
	var out struct {
		Documents []Document `json:"documents"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

package handlers_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryResp struct {
	Documents []struct {
		ID   string         `json:"id"`
		Data map[string]any `json:"data"`
	} `json:"documents"`
}

func createDoc(t *testing.T, router http.Handler, collection string, data map[string]any) string {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/collections/"+collection+"/documents", map[string]any{"data": data})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func query(t *testing.T, router http.Handler, collection string, body map[string]any) queryResp {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/collections/"+collection+"/query", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp queryResp
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&resp))
	return resp
}

func TestDocuments_RequireAuth(t *testing.T) {
	router := newSQLiteRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/collections/medicines/query", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDocuments_MedicineLifecycle(t *testing.T) {
	router := newSQLiteRouter(t)

	id := createDoc(t, router, "medicines", map[string]any{"name": "Ibuprofen", "stock": 10, "aisle": "Aisle 2"})
	createDoc(t, router, "medicines", map[string]any{"name": "Aspirin", "stock": 0, "aisle": "Aisle 1"})
	createDoc(t, router, "medicines", map[string]any{"name": "Ibuprofen Forte", "stock": 3, "aisle": "Aisle 2"})

	t.Run("prefix filter and order", func(t *testing.T) {
		resp := query(t, router, "medicines", map[string]any{
			"filters": []map[string]any{
				{"field": "name", "op": ">=", "value": "Ibu"},
				{"field": "name", "op": "<=", "value": "Ibu\uf8ff"},
			},
			"order_by": map[string]any{"field": "stock", "direction": "asc"},
		})
		if assert.Len(t, resp.Documents, 2) {
			assert.Equal(t, "Ibuprofen Forte", resp.Documents[0].Data["name"])
			assert.Equal(t, float64(3), resp.Documents[0].Data["stock"])
			assert.Equal(t, id, resp.Documents[1].ID)
		}
	})

	t.Run("in stock only", func(t *testing.T) {
		resp := query(t, router, "medicines", map[string]any{
			"filters": []map[string]any{{"field": "stock", "op": ">", "value": 0}},
		})
		assert.Len(t, resp.Documents, 2)
	})

	t.Run("merge keeps other fields", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPatch, "/api/collections/medicines/documents/"+id, map[string]any{"data": map[string]any{"stock": 42}})
		require.Equal(t, http.StatusNoContent, rr.Code)

		resp := query(t, router, "medicines", map[string]any{
			"filters": []map[string]any{{"field": "aisle", "op": "==", "value": "Aisle 2"}},
			"order_by": map[string]any{"field": "name", "direction": "asc"},
		})
		if assert.Len(t, resp.Documents, 2) {
			assert.Equal(t, "Ibuprofen", resp.Documents[0].Data["name"])
			assert.Equal(t, float64(42), resp.Documents[0].Data["stock"])
			assert.Equal(t, "Aisle 2", resp.Documents[0].Data["aisle"])
		}
	})

	t.Run("merge unknown id", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPatch, "/api/collections/medicines/documents/missing", map[string]any{"data": map[string]any{"stock": 1}})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodDelete, "/api/collections/medicines/documents/"+id, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		rr = doJSON(t, router, http.MethodDelete, "/api/collections/medicines/documents/"+id, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		resp := query(t, router, "medicines", map[string]any{})
		assert.Len(t, resp.Documents, 2)
	})
}

func TestDocuments_HistoryAppendOnly(t *testing.T) {
	router := newSQLiteRouter(t)

	createDoc(t, router, "history", map[string]any{
		"medicineId": "m1", "user": "u1", "action": "Medicine added", "details": "",
		"timestamp": "2026-01-01T10:00:00Z",
	})
	hid := createDoc(t, router, "history", map[string]any{
		"medicineId": "m1", "user": "u1", "action": "Set stock", "details": "Stock from 0 to 5",
		"timestamp": "2026-01-02T10:00:00Z",
	})
	createDoc(t, router, "history", map[string]any{"medicineId": "m2", "user": "u1", "action": "Medicine added"})

	resp := query(t, router, "history", map[string]any{
		"filters":  []map[string]any{{"field": "medicineId", "op": "==", "value": "m1"}},
		"order_by": map[string]any{"field": "timestamp", "direction": "desc"},
	})
	if assert.Len(t, resp.Documents, 2) {
		assert.Equal(t, hid, resp.Documents[0].ID)
		assert.Equal(t, "Set stock", resp.Documents[0].Data["action"])
		assert.Equal(t, "u1", resp.Documents[0].Data["user"])
	}

	rr := doJSON(t, router, http.MethodPatch, "/api/collections/history/documents/"+hid, map[string]any{"data": map[string]any{"action": "x"}})
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	rr = doJSON(t, router, http.MethodDelete, "/api/collections/history/documents/"+hid, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestDocuments_BadRequests(t *testing.T) {
	router := newSQLiteRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/collections/patients/query", map[string]any{})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/collections/medicines/query", map[string]any{
		"filters": []map[string]any{{"field": "price", "op": "==", "value": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/collections/medicines/query", map[string]any{
		"filters": []map[string]any{{"field": "stock", "op": "!=", "value": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/collections/medicines/query", map[string]any{
		"order_by": map[string]any{"field": "name", "direction": "sideways"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/collections/medicines/documents", map[string]any{"data": map[string]any{"name": "A", "stock": "lots"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newSQLiteRouter(t)
	_ = doJSON(t, router, http.MethodPost, "/api/collections/medicines/query", map[string]any{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "medistock_http_requests_total")
	assert.Contains(t, rr.Body.String(), `route="/api/collections/{collection}/query"`)
}

// gzip-клиент получает экспозицию, сжатую ровно один раз
func TestMetricsEndpoint_GzipClient(t *testing.T) {
	router := newSQLiteRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	gr, err := gzip.NewReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	body, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "# HELP")
	assert.Contains(t, string(body), "medistock_http_requests_total")
}

// 204 через gzip-стек приходит без тела
func TestDocuments_NoContentWithGzipClient(t *testing.T) {
	router := newSQLiteRouter(t)
	rr := doJSON(t, router, http.MethodPost, "/api/collections/medicines/documents", map[string]any{"id": "m-gz", "data": map[string]any{"name": "Aspirin", "stock": 1, "aisle": "A"}})
	require.Equal(t, http.StatusCreated, rr.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/collections/medicines/documents/m-gz", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	addAuthCookie(t, req, 1, testSecret)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Zero(t, rr.Body.Len())
}

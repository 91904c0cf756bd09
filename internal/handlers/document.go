package handlers

import (
	"MediStock/internal/repo"
	"MediStock/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DocumentHandler — документное API коллекций.
type DocumentHandler struct {
	DocumentService *service.DocumentService
	Logger          *zap.SugaredLogger
}

func NewDocumentHandler(documentService *service.DocumentService, logger *zap.SugaredLogger) *DocumentHandler {
	return &DocumentHandler{DocumentService: documentService, Logger: logger}
}

type createRequest struct {
	ID   string         `json:"id,omitempty"`
	Data map[string]any `json:"data"`
}

type mergeRequest struct {
	Data map[string]any `json:"data"`
}

type FilterDTO struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

type OrderDTO struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc | desc
}

type queryRequest struct {
	Filters []FilterDTO `json:"filters"`
	OrderBy *OrderDTO   `json:"order_by,omitempty"`
}

type DocumentDTO struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

type queryResponse struct {
	Documents []DocumentDTO `json:"documents"`
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.DocumentService.Create(r.Context(), chi.URLParam(r, "collection"), req.ID, req.Data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *DocumentHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.DocumentService.Merge(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"), req.Data); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.DocumentService.Delete(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q := service.Query{Filters: make([]service.Filter, 0, len(req.Filters))}
	for _, f := range req.Filters {
		q.Filters = append(q.Filters, service.Filter{Field: f.Field, Op: f.Op, Value: f.Value})
	}
	if req.OrderBy != nil {
		dir := strings.ToLower(req.OrderBy.Direction)
		if dir != "" && dir != "asc" && dir != "desc" {
			http.Error(w, "invalid order direction", http.StatusBadRequest)
			return
		}
		q.OrderBy = &service.Order{Field: req.OrderBy.Field, Desc: dir == "desc"}
	}

	docs, err := h.DocumentService.Query(r.Context(), chi.URLParam(r, "collection"), q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := queryResponse{Documents: make([]DocumentDTO, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, DocumentDTO{ID: d.ID, Data: d.Data})
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeError переводит ошибки сервиса в HTTP-статусы.
func (h *DocumentHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownCollection), errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidField), errors.Is(err, service.ErrInvalidValue), errors.Is(err, repo.ErrBadQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrReadOnly):
		http.Error(w, err.Error(), http.StatusMethodNotAllowed)
	default:
		h.Logger.Errorw("document operation failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

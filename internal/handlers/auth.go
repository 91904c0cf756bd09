package handlers

import (
	"MediStock/internal/config"
	"MediStock/internal/middleware"
	"MediStock/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// AuthHandler — регистрация, вход и текущий пользователь.
type AuthHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewAuthHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{UserService: userService, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse — пользователь в ответах auth API.
type UserResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrLoginTaken):
		http.Error(w, "email already registered", http.StatusConflict)
		return
	case errors.Is(err, service.ErrEmptyCredentials):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.Logger.Errorw("register failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.startSession(w, user.ID, user.Login)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Logger.Errorw("login failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.startSession(w, user.ID, user.Login)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me возвращает пользователя из cookie сессии.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	login, _ := middleware.GetLoginFromContext(r.Context())
	writeJSON(w, http.StatusOK, UserResponse{UID: strconv.FormatInt(id, 10), Email: login})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, id int64, login string) {
	if err := middleware.SetLoginCookie(w, id, login, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("sign token failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{UID: strconv.FormatInt(id, 10), Email: login})
}

package handlers_test

import (
	"MediStock/internal/config"
	"MediStock/internal/handlers"
	"MediStock/internal/model"
	"MediStock/internal/queue"
	"MediStock/internal/repo"
	"MediStock/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// --- Helpers ---
func newTestRouter(t *testing.T, ur repo.UserRepository) http.Handler {
	t.Helper()
	cfg := &config.Config{AuthSecret: testSecret}
	logger := zap.NewNop().Sugar()

	userSvc := service.NewUserService(ur)
	// для auth-тестов документы не используются
	docSvc := service.NewDocumentService(nil, nil, queue.NopPublisher{}, logger)

	h := handlers.NewHandler(userSvc, docSvc, logger, cfg, nil)
	return h.Router
}

func hasAuthCookie(rr *httptest.ResponseRecorder) bool {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			return true
		}
	}
	return false
}

// --- Tests ---
func TestAuth_Register(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m)

	t.Run("ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByLogin", mock.Anything, "john@example.com").Return((*model.User)(nil), nil).Once()
		created := &model.User{ID: 42, Login: "john@example.com"}
		m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Login == "john@example.com" && u.Password != ""
		})).Return(created, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"john@example.com","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, hasAuthCookie(rr), "Set-Cookie auth_token expected")
		var body handlers.UserResponse
		_ = json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&body)
		assert.Equal(t, handlers.UserResponse{UID: "42", Email: "john@example.com"}, body)
		m.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByLogin", mock.Anything, "john@example.com").Return(&model.User{ID: 1, Login: "john@example.com"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"john@example.com","password":"p"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		m.AssertExpectations(t)
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuth_Login(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByLogin", mock.Anything, "alice@example.com").Return(&model.User{ID: 2, Login: "alice@example.com", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, hasAuthCookie(rr))
		m.AssertExpectations(t)
	})

	t.Run("unauthorized", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByLogin", mock.Anything, "alice@example.com").Return(&model.User{ID: 2, Login: "alice@example.com", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"bad"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		m.AssertExpectations(t)
	})
}

func TestAuth_MeAndLogout(t *testing.T) {
	router := newTestRouter(t, new(mockUserRepo))

	t.Run("anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("authorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		addAuthCookie(t, req, 77, testSecret)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		var body handlers.UserResponse
		_ = json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&body)
		assert.Equal(t, "77", body.UID)
		assert.Equal(t, "nurse@example.com", body.Email)
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
		cookies := rr.Result().Cookies()
		if assert.Len(t, cookies, 1) {
			assert.Equal(t, "auth_token", cookies[0].Name)
			assert.Less(t, cookies[0].MaxAge, 0)
		}
	})
}

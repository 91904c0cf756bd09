package handlers_test

import (
	"MediStock/internal/config"
	"MediStock/internal/handlers"
	"MediStock/internal/middleware"
	"MediStock/internal/queue"
	"MediStock/internal/repo"
	"MediStock/internal/service"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// newSQLiteRouter собирает настоящий роутер поверх in-memory SQLite.
func newSQLiteRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zap.NewNop().Sugar()
	cfg := &config.Config{AuthSecret: testSecret}
	userSvc := service.NewUserService(repo.NewUserRepository(db))
	docSvc := service.NewDocumentService(repo.NewMedicineRepository(db), repo.NewHistoryRepository(db), queue.NopPublisher{}, logger)
	return handlers.NewHandler(userSvc, docSvc, logger, cfg, nil).Router
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, middleware.SetLoginCookie(rr, userID, "nurse@example.com", secret))
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// doJSON отправляет JSON-запрос от имени пользователя 1.
func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	addAuthCookie(t, req, 1, testSecret)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

package commands

import (
	"MediStock/internal/config"
	"MediStock/internal/handlers"
	"MediStock/internal/queue"
	serverrepo "MediStock/internal/repo"
	"MediStock/internal/service"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestConfig поднимает настоящий backend на in-memory SQLite
// и возвращает конфиг клиента с каталогом токена во временной папке.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	db, err := serverrepo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zap.NewNop().Sugar()
	h := handlers.NewHandler(
		service.NewUserService(serverrepo.NewUserRepository(db)),
		service.NewDocumentService(serverrepo.NewMedicineRepository(db), serverrepo.NewHistoryRepository(db), queue.NopPublisher{}, logger),
		logger,
		&config.Config{AuthSecret: "s"},
		nil,
	)
	ts := httptest.NewServer(h.Router)
	t.Cleanup(ts.Close)

	return &config.Config{ServerURL: ts.URL, Backend: config.BackendRemote, ConfigDir: t.TempDir()}
}

// run выполняет команду через диспетчер и возвращает код и вывод.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}

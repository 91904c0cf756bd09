package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// setTempCfg перенастраивает пользовательский конфиг‑каталог в temp для изоляции тестов.
func setTempCfg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

func TestAuthFSStore_SaveLoad_Token_TrimsWhitespace(t *testing.T) {
	st := AuthFSStore{Dir: t.TempDir()}
	// Сохранение токена
	if err := st.Save("tok-123\n\n"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	// Дозапишем вручную лишние пробелы в конец файла, чтобы проверить trim
	p, _ := st.path("auth_token")
	f, _ := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o600)
	_, _ = f.WriteString("  \r\n")
	_ = f.Close()

	tok, err := st.Load()
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	if tok != "tok-123" {
		t.Fatalf("token not trimmed, got %q", tok)
	}
}

func TestAuthFSStore_Load_TokenMissingOrEmpty(t *testing.T) {
	st := AuthFSStore{Dir: t.TempDir()}
	// отсутствует файл
	if _, err := st.Load(); err == nil {
		t.Fatalf("expected error for missing token file")
	}
	// пустой файл
	p, _ := st.path("auth_token")
	_ = os.WriteFile(p, []byte("\n"), 0o600)
	if _, err := st.Load(); err == nil {
		t.Fatalf("expected error for empty token file")
	}
}

func TestAuthFSStore_Clear(t *testing.T) {
	st := AuthFSStore{Dir: t.TempDir()}
	// нечего удалять — не ошибка
	if err := st.Clear(); err != nil {
		t.Fatalf("clear on missing file: %v", err)
	}
	_ = st.Save("tok")
	if err := st.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := st.Load(); err == nil {
		t.Fatalf("token must be gone after Clear")
	}
}

func TestAuthFSStore_SaveLoad_Login_And_Trimming(t *testing.T) {
	st := AuthFSStore{Dir: t.TempDir()}
	if err := st.SaveLogin("alice@example.com\n"); err != nil {
		t.Fatalf("save login: %v", err)
	}
	login, err := st.LoadLogin()
	if err != nil {
		t.Fatalf("load login: %v", err)
	}
	if login != "alice@example.com" {
		t.Fatalf("login not trimmed, got %q", login)
	}
	if err := st.SaveLogin(""); err == nil {
		t.Fatalf("expected error for empty login")
	}
}

func TestAuthFSStore_DefaultDirUnderUserConfig(t *testing.T) {
	base := setTempCfg(t)
	st := AuthFSStore{}
	if err := st.Save("tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if runtime.GOOS != "linux" {
		return
	}
	if _, err := os.Stat(filepath.Join(base, "MediStock", "auth_token")); err != nil {
		t.Fatalf("token file expected under XDG_CONFIG_HOME/MediStock: %v", err)
	}
}

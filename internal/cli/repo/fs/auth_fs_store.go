package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AuthFSStore — файловое хранилище токена и последнего логина для CLI.
// Dir — каталог хранения; пустое значение означает <UserConfigDir>/MediStock.
type AuthFSStore struct {
	Dir string
}

func (s AuthFSStore) configDir() (string, error) {
	p := s.Dir
	if p == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "MediStock")
	}
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s AuthFSStore) path(name string) (string, error) {
	dir, err := s.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func readTrimmed(p string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	return strings.TrimRight(string(b), " \t\r\n"), nil
}

// Save сохраняет auth‑токен в файл.
func (s AuthFSStore) Save(token string) error {
	p, err := s.path("auth_token")
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (s AuthFSStore) Load() (string, error) {
	p, err := s.path("auth_token")
	if err != nil {
		return "", err
	}
	tok, err := readTrimmed(p)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", errors.New("empty token file")
	}
	return tok, nil
}

// Clear удаляет токен; отсутствие файла не ошибка.
func (s AuthFSStore) Clear() error {
	p, err := s.path("auth_token")
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SaveLogin сохраняет логин пользователя в файл.
func (s AuthFSStore) SaveLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	p, err := s.path("last_login")
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(login), 0o600)
}

// LoadLogin читает логин пользователя из файла.
func (s AuthFSStore) LoadLogin() (string, error) {
	p, err := s.path("last_login")
	if err != nil {
		return "", err
	}
	login, err := readTrimmed(p)
	if err != nil {
		return "", err
	}
	if login == "" {
		return "", errors.New("no stored login")
	}
	return login, nil
}

package repo

// TokenStore хранит auth-токен между запусками CLI. Load без токена возвращает ошибку.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// UserContextStore помнит email последнего вошедшего пользователя;
// после выхода значение остаётся, чтобы подсказать его при следующем входе.
type UserContextStore interface {
	SaveLogin(email string) error
	LoadLogin() (string, error)
}

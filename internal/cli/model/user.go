package model

// User — аутентифицированный пользователь сессии. Email может быть пустым.
type User struct {
	UID   string
	Email string
}

// Identity — строка, которой пользователь подписывает записи журнала.
func (u User) Identity() string {
	if u.Email != "" {
		return u.Email
	}
	return u.UID
}

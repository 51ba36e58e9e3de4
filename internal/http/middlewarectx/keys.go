// Package middlewarectx содержит HTTP middleware: проверку JWT внешнего
// сервиса аутентификации, premium-гейт и ограничение частоты запросов.
package middlewarectx

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// UserEmail — ключ для email пользователя в контексте
	UserEmail Key = "user_email"
)

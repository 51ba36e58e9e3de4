// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразное формирование структурированных полей лога.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Event возвращает slog.Attr с ключом "event" для логирования
// вида входящего события платёжного провайдера.
func Event(kind string) slog.Attr {
	return slog.Attr{
		Key:   "event",
		Value: slog.StringValue(kind),
	}
}

package models

import "time"

// Возможные типы уведомлений.
const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
)

// Notification представляет запись в ленте уведомлений пользователя.
// Записи создаются серверными продюсерами, никогда не удаляются,
// а поле Read меняется только в одну сторону: false -> true.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"` // info, success, warning или error
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	Link      *string   `json:"link,omitempty"`
}

package models

import "time"

// Investment представляет заявку пользователя на инвестицию в проект.
// Создание заявки доступно только пользователям с premium-подпиской.
type Investment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProjectName string    `json:"project_name"`
	AmountMinor int64     `json:"amount_minor"` // сумма в минимальных единицах валюты
	CreatedAt   time.Time `json:"created_at"`
}

// DummyInvestment используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Investment.
type DummyInvestment struct {
	ProjectName string `json:"project_name" validate:"required"`
	AmountMinor int64  `json:"amount_minor" validate:"required,gt=0"`
}

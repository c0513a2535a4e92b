// Package models содержит доменные структуры портала медицинских сервисов:
// пользователей, сервисы, подписки и заявки на новые функции,
// а также вспомогательные Dummy-типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей портала.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User представляет пользователя портала.
// ExternalID — стабильный идентификатор, выданный внешним identity-провайдером,
// задаётся один раз при онбординге и больше не меняется.
type User struct {
	UID         string    // Уникальный идентификатор пользователя
	ExternalID  string    // Идентификатор из identity-провайдера (уникальный)
	Name        string    // Отображаемое имя (может быть пустым)
	Email       string    // Электронная почта (уникальная)
	PhoneNumber string    // Номер телефона
	Role        string    // Роль пользователя, USER или ADMIN
	CreatedAt   time.Time // Дата создания записи
	UpdatedAt   time.Time // Дата последнего обновления
}

// DummyOnboarding используется для приёма данных формы онбординга.
// ExternalID берётся из сессии, поэтому в теле запроса его нет.
type DummyOnboarding struct {
	Name        string `json:"name" validate:"required,min=2"`         // Отображаемое имя
	Email       string `json:"email" validate:"required,email"`        // Электронная почта
	PhoneNumber string `json:"phone_number" validate:"required,min=5"` // Номер телефона
}

// DummyAccountUpdate используется для приёма данных формы настроек аккаунта.
type DummyAccountUpdate struct {
	Name        string `json:"name" validate:"required,min=2"`         // Отображаемое имя
	Email       string `json:"email" validate:"required,email"`        // Электронная почта
	PhoneNumber string `json:"phone_number" validate:"required,min=5"` // Номер телефона
}

package models

import "time"

// Статусы заявки на новую функцию, управляются администратором.
const (
	FeatureStatusNew        = "NEW"
	FeatureStatusInProgress = "IN_PROGRESS"
	FeatureStatusClosed     = "CLOSED"
)

// FeatureRequest представляет свободный текст-пожелание пользователя,
// попадающее на разбор к администратору.
type FeatureRequest struct {
	ID          string    // Уникальный идентификатор заявки
	UserUID     string    // Пользователь-автор
	Title       string    // Заголовок, 4–100 символов
	Description string    // Описание, 10–500 символов
	Status      string    // Статус разбора, по умолчанию NEW
	CreatedAt   time.Time // Дата создания
}

// DummyFeatureRequest используется для приёма данных формы пожелания.
type DummyFeatureRequest struct {
	Title       string `json:"title" validate:"required,min=4,max=100"`        // Заголовок
	Description string `json:"description" validate:"required,min=10,max=500"` // Описание
}

// DummyFeatureStatus используется для смены статуса заявки администратором.
type DummyFeatureStatus struct {
	Status string `json:"status" validate:"required,oneof=NEW IN_PROGRESS CLOSED"` // Новый статус
}

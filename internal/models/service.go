package models

import "time"

// Service представляет опубликованный медицинский сервис,
// за которым стоит внешне размещённая AI-модель.
// Цена хранится в копейках/центах (фиксированная точка),
// преобразование в строку вида "149.99" выполняется в одном месте — lib/money.
type Service struct {
	ID            string    // Уникальный идентификатор сервиса
	Name          string    // Название сервиса
	Description   string    // Описание сервиса
	ModelEndpoint string    // URL внешней AI-модели
	PriceCents    int64     // Цена в центах
	ImageURL      string    // URL картинки (может быть пустым)
	IsActive      bool      // Флаг активности, по умолчанию true
	CreatedAt     time.Time // Дата создания
	UpdatedAt     time.Time // Дата последнего обновления
}

// DummyService используется для приёма данных формы создания сервиса.
// Цена приходит строкой, чтобы её можно было валидировать паттерном
// и распарсить в центы вручную.
type DummyService struct {
	Name          string `json:"name" validate:"required,min=2"`         // Название (не короче 2 символов)
	Description   string `json:"description" validate:"required,min=10"` // Описание (не короче 10 символов)
	ModelEndpoint string `json:"model_endpoint" validate:"required,url"` // URL модели
	Price         string `json:"price" validate:"required"`              // Цена в формате 99.99
	ImageURL      string `json:"image_url" validate:"omitempty,url"`     // Картинка (опционально)
}

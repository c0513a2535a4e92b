package models

import (
	"time"

	"github.com/eigengram/services-portal/internal/lib/money"
)

// ServiceView — представление сервиса для JSON-ответов.
// Цена сериализуется в текст единственной точкой форматирования lib/money.
type ServiceView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ModelEndpoint string `json:"model_endpoint"`
	Price         string `json:"price"`
	ImageURL      string `json:"image_url,omitempty"`
	IsActive      bool   `json:"is_active"`
}

// NewServiceView строит представление сервиса.
func NewServiceView(s *Service) ServiceView {
	return ServiceView{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		ModelEndpoint: s.ModelEndpoint,
		Price:         money.FormatCents(s.PriceCents),
		ImageURL:      s.ImageURL,
		IsActive:      s.IsActive,
	}
}

// NewServiceViews строит представления списка сервисов.
func NewServiceViews(services []*Service) []ServiceView {
	result := make([]ServiceView, 0, len(services))
	for _, s := range services {
		result = append(result, NewServiceView(s))
	}
	return result
}

// SubscriptionEntryView — представление подписки с данными пользователя
// и сервиса для списков администратора и дашборда.
type SubscriptionEntryView struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"start_date"`
	CreatedAt    time.Time `json:"created_at"`
	UserName     string    `json:"user_name,omitempty"`
	UserEmail    string    `json:"user_email"`
	ServiceID    string    `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	ServicePrice string    `json:"service_price"`
}

// NewSubscriptionEntryViews строит представления списка подписок.
func NewSubscriptionEntryViews(entries []*SubscriptionEntry) []SubscriptionEntryView {
	result := make([]SubscriptionEntryView, 0, len(entries))
	for _, e := range entries {
		result = append(result, SubscriptionEntryView{
			ID:           e.ID,
			Status:       e.Status,
			StartDate:    e.StartDate,
			CreatedAt:    e.CreatedAt,
			UserName:     e.UserName,
			UserEmail:    e.UserEmail,
			ServiceID:    e.ServiceID,
			ServiceName:  e.ServiceName,
			ServicePrice: money.FormatCents(e.ServicePrice),
		})
	}
	return result
}

// UserView — представление пользователя для JSON-ответов.
type UserView struct {
	UID         string `json:"uid"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// NewUserView строит представление пользователя.
func NewUserView(u *User) UserView {
	return UserView{
		UID:         u.UID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}

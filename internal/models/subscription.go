package models

import "time"

// Статусы подписки. PENDING — начальный статус любой подписки.
// CANCELLED и INACTIVE — терминальные, переходов из них нет.
const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusCancelled = "CANCELLED"
)

// transitions описывает допустимые переходы статусов подписки.
var transitions = map[string][]string{
	StatusPending: {StatusActive, StatusCancelled},
	StatusActive:  {StatusInactive},
}

// CanTransition сообщает, допустим ли переход подписки из статуса from в статус to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Subscription представляет заявку пользователя на сервис и её жизненный цикл.
// StartDate при создании равен моменту запроса; при одобрении
// перезаписывается моментом активации.
type Subscription struct {
	ID        string    // Уникальный идентификатор подписки
	UserUID   string    // Пользователь-владелец
	ServiceID string    // Запрошенный сервис
	Status    string    // Текущий статус: PENDING, ACTIVE, INACTIVE, CANCELLED
	StartDate time.Time // Дата начала (запроса либо активации)
	CreatedAt time.Time // Дата создания записи
	UpdatedAt time.Time // Дата последнего обновления
}

// SubscriptionEntry — подписка вместе с данными пользователя и сервиса
// для списков администратора и дашборда (жадная выборка связанных строк).
type SubscriptionEntry struct {
	Subscription
	UserName     string // Имя пользователя-владельца
	UserEmail    string // Почта пользователя-владельца
	ServiceName  string // Название сервиса
	ServicePrice int64  // Цена сервиса в центах
}

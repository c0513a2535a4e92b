// Package events реализует шину типизированных событий об изменении сущностей.
//
// Каждая успешная мутация публикует событие вида {entity, id, action}
// в direct-обменник portal.events с ключом маршрутизации "<entity>.<action>".
// Слои представления подписываются на интересующие их сущности,
// а не на строковые пути страниц.
package events

import "time"

// Сущности портала, о которых публикуются события.
const (
	EntityService        = "service"
	EntitySubscription   = "subscription"
	EntityUser           = "user"
	EntityFeatureRequest = "feature_request"
)

// Действия над сущностями.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionRequested = "requested"
)

// EntityChanged — событие изменения сущности.
type EntityChanged struct {
	Entity     string    `json:"entity"`      // Тип сущности
	ID         string    `json:"id"`          // Идентификатор сущности
	Action     string    `json:"action"`      // Что произошло
	OccurredAt time.Time `json:"occurred_at"` // Момент изменения
}

// RoutingKey возвращает ключ маршрутизации события в формате "<entity>.<action>".
func (e EntityChanged) RoutingKey() string {
	return e.Entity + "." + e.Action
}

package cache

import "fmt"

// Именованные ключи представлений. Каждая мутация обязана инвалидировать
// ключи тех страниц, на которых видна затронутая сущность.

// KeyAdminServices — список сервисов в админке.
func KeyAdminServices() string { return "view:admin:services" }

// KeyAdminSubscriptions — список заявок на подписку в админке.
func KeyAdminSubscriptions() string { return "view:admin:subscriptions" }

// KeyUserDashboard — дашборд пользователя (подписки и доступные сервисы).
func KeyUserDashboard(userUID string) string {
	return fmt.Sprintf("view:dashboard:%s", userUID)
}

// KeyServiceDetail — страница сервиса.
func KeyServiceDetail(serviceID string) string {
	return fmt.Sprintf("view:service:%s", serviceID)
}

// KeyActiveServices — список активных сервисов для пользователя
// (с исключением уже запрошенных им).
func KeyActiveServices(userUID string) string {
	return fmt.Sprintf("view:services:active:%s", userUID)
}

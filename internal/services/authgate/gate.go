// Package authgate реализует единственный механизм авторизации портала:
// проверку почты из сессии по настроенному списку администраторов.
//
// Никакой криптографии здесь нет — аутентификацию уже выполнил
// identity-провайдер, проверяется только членство в списке.
// Решение не кешируется и вычисляется на каждом защищённом запросе.
package authgate

import "strings"

// Gate хранит множество администраторских адресов.
// Список передаётся из конфига при создании, глобального состояния нет.
type Gate struct {
	allowed map[string]struct{}
}

// New создает Gate из списка адресов. Адреса сравниваются без учёта регистра.
func New(adminEmails []string) *Gate {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		allowed[strings.ToLower(email)] = struct{}{}
	}
	return &Gate{allowed: allowed}
}

// IsAdmin сообщает, принадлежит ли почта администратору.
// Пустой адрес всегда даёт false.
func (g *Gate) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := g.allowed[strings.ToLower(email)]
	return ok
}

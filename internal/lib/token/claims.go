// Package token реализует разбор и выпуск сессионных токенов identity-провайдера.
//
// Портал не хранит учётных данных: аутентификацию выполняет внешний
// identity-провайдер, а сюда приходит его подписанный токен с claim-полями
// профиля. Maker определяет интерфейс для выпуска и проверки таких токенов.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims описывает данные сессии, хранящиеся в токене.
// Subject стандартного claim-набора — внешний идентификатор пользователя.
type SessionClaims struct {
	Email                string `json:"email"`          // Подтверждённая почта из identity-провайдера
	Name                 string `json:"name,omitempty"` // Отображаемое имя (может отсутствовать)
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (Subject, ExpiresAt и пр.)
}

// Maker описывает интерфейс для выпуска и разбора сессионных токенов.
type Maker interface {
	// IssueToken выпускает токен для внешнего идентификатора с почтой и именем.
	IssueToken(externalID, email, name string) (string, error)
	// ParseToken возвращает *SessionClaims, если токен корректен.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// Package middlewarectx содержит HTTP middleware портала.
//
// SessionMiddleware проверяет сессионный токен identity-провайдера из
// заголовка Authorization и кладёт в контекст внешний идентификатор,
// почту и имя. UserMiddleware резолвит локального пользователя по внешнему
// идентификатору. AdminMiddleware пропускает только адреса из allow-list.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eigengram/services-portal/internal/http/response"
	"github.com/eigengram/services-portal/internal/lib/sl"
	"github.com/eigengram/services-portal/internal/lib/token"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// ExternalID — ключ внешнего идентификатора пользователя в контексте
	ExternalID Key = "external_id"
	// Email — ключ почты пользователя в контексте
	Email Key = "email"
	// Name — ключ отображаемого имени в контексте
	Name Key = "name"
	// UserUID — ключ локального идентификатора пользователя в контексте
	UserUID Key = "user_uid"
)

// TokenParser описывает интерфейс разбора сессионного токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*token.SessionClaims, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет сессионный
// токен в заголовке Authorization.
//
// Если токен валиден, добавляет внешний идентификатор, почту и имя в контекст
// запроса, иначе возвращает ошибку с HTTP статусом 401 Unauthorized —
// это API-эквивалент редиректа на страницу входа.
func SessionMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired session token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session token"))
				return
			}
			ctx := context.WithValue(r.Context(), ExternalID, claims.Subject)
			ctx = context.WithValue(ctx, Email, claims.Email)
			ctx = context.WithValue(ctx, Name, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/eigengram/services-portal/internal/http/response"
	"github.com/eigengram/services-portal/internal/lib/sl"
	"github.com/eigengram/services-portal/internal/models"
	"github.com/eigengram/services-portal/internal/storage"
)

// UserResolver определяет интерфейс для поиска локального пользователя
// по внешнему идентификатору identity-провайдера.
type UserResolver interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

// UserMiddleware резолвит локального пользователя по внешнему идентификатору
// из контекста сессии и кладёт его UID в контекст запроса.
//
// Если пользователь ещё не прошёл онбординг, возвращает 403 с причиной —
// API-эквивалент редиректа на страницу онбординга.
func UserMiddleware(resolver UserResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			externalID, ok := r.Context().Value(ExternalID).(string)
			if !ok || externalID == "" {
				log.Error("external id missing in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			user, err := resolver.GetByExternalID(r.Context(), externalID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("onboarding required"))
					return
				}
				log.Error("failed to resolve user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

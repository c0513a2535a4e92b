package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/eigengram/services-portal/internal/http/response"
)

// AdminGate описывает проверку почты по списку администраторов.
type AdminGate interface {
	IsAdmin(email string) bool
}

// AdminMiddleware пропускает запрос дальше только если почта из сессии
// состоит в allow-list администраторов. Проверка выполняется на каждом
// запросе, решение не кешируется.
//
// Не-администратор получает 403 — API-эквивалент редиректа
// на страницу "not authorised".
func AdminMiddleware(gate AdminGate, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := r.Context().Value(Email).(string)
			if !ok || !gate.IsAdmin(email) {
				log.Warn("admin access denied", slog.String("email", email))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("not authorised"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

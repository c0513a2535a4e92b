// Package health реализует проверку живости сервиса.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/eigengram/services-portal/internal/http/response"
)

// ServeHTTP godoc
// @Summary Проверка живости сервиса
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OK())
}

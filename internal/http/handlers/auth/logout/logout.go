// Package logout реализует HTTP-обработчик завершения сессии.
// Операция идемпотентна: выход без активной сессии не является ошибкой.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gate/internal/http/response"
	"github.com/magabrotheeeer/subscription-gate/internal/lib/sl"
)

// Service описывает интерфейс завершения сессии.
type Service interface {
	SignOut(ctx context.Context) error
}

type Handler struct {
	log  *slog.Logger
	gate Service
}

func New(log *slog.Logger, gate Service) *Handler {
	return &Handler{
		log:  log,
		gate: gate,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.gate.SignOut(r.Context()); err != nil {
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("logout success")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "signed out",
	}))
}

// Package read реализует HTTP-обработчик профиля пользователя:
// данные учетной записи, подписку и оставшееся время в днях и часах.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-gate/internal/http/response"
	"github.com/magabrotheeeer/subscription-gate/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

// Service описывает интерфейс проектора статуса подписки.
type Service interface {
	Snapshot(ctx context.Context, userUID string) (*models.StatusView, error)
}

type Handler struct {
	log    *slog.Logger
	status Service
}

func New(log *slog.Logger, status Service) *Handler {
	return &Handler{
		log:    log,
		status: status,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает данные пользователя, подписку и оставшееся время подписки.
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Профиль с данными подписки"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}
	email, _ := r.Context().Value(middlewarectx.Email).(string)
	displayName, _ := r.Context().Value(middlewarectx.DisplayName).(string)

	view, err := h.status.Snapshot(r.Context(), userUID)
	switch {
	case errors.Is(err, models.ErrSubscriptionNotFound):
		log.Error("subscription not found", slog.String("user_uid", userUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription not found"))
		return
	case err != nil:
		log.Error("failed to build subscription status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid":        userUID,
		"email":           email,
		"display_name":    displayName,
		"subscription":    view.Subscription,
		"days_remaining":  view.DaysRemaining,
		"hours_remaining": view.HoursRemaining,
	}))
}

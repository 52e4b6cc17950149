package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gate/internal/http/response"
	"github.com/magabrotheeeer/subscription-gate/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

// SubscriptionChecker определяет интерфейс для проверки статуса подписки.
type SubscriptionChecker interface {
	CheckSubscription(ctx context.Context, userUID string) error
}

// SubscriptionStatusMiddleware создает middleware, которое на каждом запросе
// перепроверяет подписку пользователя. Подписка, истекшая уже после входа,
// блокирует доступ к защищенным маршрутам, а не только к следующему входу.
func SubscriptionStatusMiddleware(log *slog.Logger, checker SubscriptionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			err := checker.CheckSubscription(r.Context(), userUID)
			switch {
			case errors.Is(err, models.ErrExpiredSubscription):
				log.Error("subscription expired, access denied",
					slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error(models.ErrExpiredSubscription.Error()))
				return
			case errors.Is(err, models.ErrSubscriptionNotFound):
				log.Error("subscription missing, access denied",
					slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("subscription not found"))
				return
			case err != nil:
				log.Error("failed to check subscription status", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

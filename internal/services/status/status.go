// Package services содержит проектор статуса подписки: построение
// человеко‑читаемого представления оставшегося времени подписки,
// обновляемого по таймеру.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-gate/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

// SubscriptionReader описывает доступ к подпискам только для чтения.
type SubscriptionReader interface {
	FindSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error)
}

// StatusService пересчитывает производное представление статуса подписки.
// Ничего не изменяет: только читает и вычисляет.
type StatusService struct {
	repo            SubscriptionReader
	refreshInterval time.Duration
	log             *slog.Logger
}

// NewStatusService создает новый экземпляр StatusService.
func NewStatusService(repo SubscriptionReader, refreshInterval time.Duration, log *slog.Logger) *StatusService {
	return &StatusService{
		repo:            repo,
		refreshInterval: refreshInterval,
		log:             log,
	}
}

// Remaining возвращает целые дни и часы, оставшиеся до endDate.
// Для истекшей подписки возвращается 0, 0.
func Remaining(endDate, now time.Time) (days, hours int) {
	remaining := endDate.Sub(now)
	if remaining < 0 {
		return 0, 0
	}
	totalHours := int(remaining.Hours())
	return totalHours / 24, totalHours % 24
}

// Snapshot строит разовое представление статуса подписки пользователя.
func (s *StatusService) Snapshot(ctx context.Context, userUID string) (*models.StatusView, error) {
	sub, err := s.repo.FindSubscriptionByUserUID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	days, hours := Remaining(sub.EndDate, time.Now())
	return &models.StatusView{
		Subscription:   sub,
		DaysRemaining:  days,
		HoursRemaining: hours,
	}, nil
}

// Watch возвращает канал снимков статуса, пересчитываемых с фиксированным
// интервалом. Первый снимок отправляется немедленно. Канал закрывается
// при отмене контекста; каждый вызов создает независимый поток, поэтому
// наблюдение можно перезапускать.
func (s *StatusService) Watch(ctx context.Context, userUID string) <-chan models.StatusView {
	out := make(chan models.StatusView, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()

		s.emit(ctx, userUID, out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.emit(ctx, userUID, out)
			}
		}
	}()

	return out
}

func (s *StatusService) emit(ctx context.Context, userUID string, out chan<- models.StatusView) {
	view, err := s.Snapshot(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to build subscription status snapshot",
			slog.String("user_uid", userUID), sl.Err(err))
		return
	}
	select {
	case out <- *view:
	case <-ctx.Done():
	}
}

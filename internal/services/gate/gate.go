// Package services содержит шлюз подписок: бизнес-правила, определяющие,
// когда пользовательская сессия считается действительной, когда создается
// пробная подписка и когда сессия принудительно завершается из-за истечения.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-gate/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gate/internal/metrics"
	"github.com/magabrotheeeer/subscription-gate/internal/models"
	"github.com/magabrotheeeer/subscription-gate/internal/notifier"
	"github.com/magabrotheeeer/subscription-gate/internal/session"
)

// IdentityProvider описывает контракт внешнего провайдера идентификации.
type IdentityProvider interface {
	// SignIn проверяет учетные данные и выпускает сессию.
	SignIn(ctx context.Context, email, password string) (*models.Session, *models.User, error)
	// SignUp создает новую учетную запись с метаданными.
	SignUp(ctx context.Context, email, password, displayName string) (*models.User, error)
}

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// FindSubscriptionByUserUID возвращает подписку пользователя
	// или models.ErrSubscriptionNotFound.
	FindSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error)
	// CreateTrialSubscription создает пробную подписку, если ее еще нет,
	// и возвращает итоговую строку.
	CreateTrialSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// GateService реализует правила жизненного цикла аутентификации и подписки.
type GateService struct {
	identity      IdentityProvider
	repo          SubscriptionRepository
	cache         Cache
	store         *session.Store
	events        notifier.Notifier
	collector     *metrics.Collector
	trialDuration time.Duration
	log           *slog.Logger
}

// NewGateService создает новый экземпляр GateService.
func NewGateService(
	identity IdentityProvider,
	repo SubscriptionRepository,
	cache Cache,
	store *session.Store,
	events notifier.Notifier,
	collector *metrics.Collector,
	trialDuration time.Duration,
	log *slog.Logger,
) *GateService {
	return &GateService{
		identity:      identity,
		repo:          repo,
		cache:         cache,
		store:         store,
		events:        events,
		collector:     collector,
		trialDuration: trialDuration,
		log:           log,
	}
}

// Authenticate выполняет вход: проверка учетных данных, затем подписки.
// Пользователь без подписки получает пробную; пользователь с истекшей
// подпиской принудительно выходит и получает models.ErrExpiredSubscription —
// сессия никогда не остается активной после этой проверки.
func (s *GateService) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "services.gate.Authenticate"

	s.store.BeginAuthentication()
	sess, user, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		s.store.FailAuthentication()
		if errors.Is(err, models.ErrInvalidCredentials) {
			s.collector.RecordLogin(metrics.ResultInvalidCredentials)
			return nil, err
		}
		s.collector.RecordLogin(metrics.ResultError)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.store.SetSession(sess)

	sub, err := s.lookupSubscription(ctx, user.UID)
	switch {
	case errors.Is(err, models.ErrSubscriptionNotFound):
		// Учетная запись без подписки: создаем пробную прямо при входе.
		// Сбой провижининга не блокирует вход, только логируется.
		if _, perr := s.provisionTrial(ctx, user.UID, user.Email, user.DisplayName()); perr != nil {
			s.log.Error("trial provisioning failed during login",
				slog.String("op", op), slog.String("user_uid", user.UID), sl.Err(perr))
		}
	case err != nil:
		s.log.Error("subscription lookup failed during login",
			slog.String("op", op), slog.String("user_uid", user.UID), sl.Err(err))
	default:
		if sub.IsExpired(time.Now()) {
			s.store.SignOut()
			s.events.ExpiredLoginRejected(user.UID, user.Email, sub.EndDate)
			s.collector.RecordLogin(metrics.ResultExpired)
			return nil, models.ErrExpiredSubscription
		}
	}

	s.collector.RecordLogin(metrics.ResultOK)
	return sess, nil
}

// RegisterAndProvision регистрирует пользователя и синхронно создает ему
// пробную подписку. При сбое провижининга выполняется компенсация:
// сессия завершается, учетная запись не остается "входной" без подписки.
// Активная сессия при успехе не создается — требуется явный вход.
func (s *GateService) RegisterAndProvision(ctx context.Context, email, password, displayName string) (*models.User, error) {
	const op = "services.gate.RegisterAndProvision"

	user, err := s.identity.SignUp(ctx, email, password, displayName)
	if err != nil {
		if errors.Is(err, models.ErrSignupRejected) {
			s.collector.RecordSignup(metrics.ResultRejected)
			return nil, err
		}
		s.collector.RecordSignup(metrics.ResultError)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.provisionTrial(ctx, user.UID, user.Email, user.DisplayName()); err != nil {
		s.log.Error("trial provisioning failed during signup",
			slog.String("op", op), slog.String("user_uid", user.UID), sl.Err(err))
		s.store.SignOut()
		s.collector.RecordSignup(metrics.ResultError)
		return nil, models.ErrProvisioningFailed
	}

	s.events.SignupCompleted(user.UID, user.Email)
	s.collector.RecordSignup(metrics.ResultOK)
	return user, nil
}

// SignOut безусловно завершает текущую сессию. Идемпотентен.
func (s *GateService) SignOut(_ context.Context) error {
	s.store.SignOut()
	return nil
}

// CheckSubscription проверяет статус подписки пользователя для уже
// установленной сессии. Возвращает models.ErrExpiredSubscription для
// истекшей подписки и models.ErrLookupFailed при сбое хранилища.
func (s *GateService) CheckSubscription(ctx context.Context, userUID string) error {
	sub, err := s.lookupSubscription(ctx, userUID)
	if err != nil {
		if errors.Is(err, models.ErrSubscriptionNotFound) {
			return err
		}
		return fmt.Errorf("%w: %s", models.ErrLookupFailed, err)
	}
	if sub.IsExpired(time.Now()) {
		return models.ErrExpiredSubscription
	}
	return nil
}

func (s *GateService) lookupSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	cacheKey := fmt.Sprintf("subscription:%s", userUID)
	var cached *models.Subscription
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read subscription from cache",
			slog.String("key", cacheKey), sl.Err(err))
	}
	if found && cached != nil {
		return cached, nil
	}

	sub, err := s.repo.FindSubscriptionByUserUID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, sub, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache subscription",
			slog.String("key", cacheKey), sl.Err(err))
	}
	return sub, nil
}

func (s *GateService) provisionTrial(ctx context.Context, userUID, email, displayName string) (*models.Subscription, error) {
	now := time.Now().UTC()
	sub := models.Subscription{
		UserUID:     userUID,
		Email:       email,
		DisplayName: displayName,
		Type:        models.SubscriptionTypeTrial,
		Status:      models.SubscriptionStatusActive,
		StartDate:   now,
		EndDate:     now.Add(s.trialDuration),
	}
	created, err := s.repo.CreateTrialSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("subscription:%s", userUID)
	if err := s.cache.Set(cacheKey, created, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache subscription",
			slog.String("key", cacheKey), sl.Err(err))
	}

	s.collector.RecordTrialProvisioned()
	s.events.TrialProvisioned(userUID, email, created.EndDate)
	s.log.Info("trial subscription provisioned",
		slog.String("user_uid", userUID),
		slog.Time("end_date", created.EndDate))
	return created, nil
}

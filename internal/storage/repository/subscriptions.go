package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

// FindSubscriptionByUserUID возвращает подписку пользователя.
// Отсутствие записи отличается от сбоя хранилища: в первом случае
// возвращается models.ErrSubscriptionNotFound.
func (s *Storage) FindSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByUserUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, email, display_name, subscription_type,
			      subscription_status, start_date, end_date, created_at
			  FROM subscriptions
			  WHERE user_uid = $1`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.Email, &sub.DisplayName, &sub.Type,
		&sub.Status, &sub.StartDate, &sub.EndDate, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CreateTrialSubscription создает пробную подписку пользователю,
// если ее еще нет. Ограничение UNIQUE(user_uid) вместе с
// ON CONFLICT DO NOTHING гарантирует не более одной записи на пользователя
// даже при одновременных регистрации и входе. Возвращается итоговая
// строка: только что созданная либо уже существующая.
func (s *Storage) CreateTrialSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateTrialSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, email, display_name,
			      subscription_type, subscription_status, start_date, end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_uid) DO NOTHING
			  RETURNING id, user_uid, email, display_name, subscription_type,
			      subscription_status, start_date, end_date, created_at`
	created := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.Email, sub.DisplayName, sub.Type, sub.Status,
		sub.StartDate, sub.EndDate)
	err := row.Scan(&created.ID, &created.UserUID, &created.Email, &created.DisplayName,
		&created.Type, &created.Status, &created.StartDate, &created.EndDate, &created.CreatedAt)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Конфликт: строка уже существует, перечитываем ее.
	existing, err := s.FindSubscriptionByUserUID(ctx, sub.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return existing, nil
}

// UpdateSubscriptionStatus обновляет статус подписки пользователя.
// Используется внешними механизмами управления тарифами.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET subscription_status = $1
			  WHERE user_uid = $2`
	_, err := s.DB.ExecContext(ctx, query, status, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

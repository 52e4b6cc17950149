package models

import "time"

// Возможные типы подписки.
const (
	SubscriptionTypeTrial = "trial"
)

// Возможные статусы подписки.
const (
	SubscriptionStatusActive    = "Active"
	SubscriptionStatusSuspended = "Suspended"
	SubscriptionStatusCancelled = "Cancelled"
)

// Subscription представляет подписку пользователя.
// На одного пользователя приходится не более одной записи,
// уникальность обеспечивается ограничением в базе данных.
type Subscription struct {
	ID          int       `json:"id"`
	UserUID     string    `json:"user_uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Type        string    `json:"subscription_type"`
	Status      string    `json:"subscription_status"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsExpired сообщает, истекла ли подписка на момент now.
// Подписка считается истекшей, только если now строго позже даты окончания.
func (s *Subscription) IsExpired(now time.Time) bool {
	return now.After(s.EndDate)
}

// StatusView — производное представление оставшегося времени подписки.
// Не сохраняется в базе, пересчитывается по требованию.
type StatusView struct {
	Subscription   *Subscription `json:"subscription"`
	DaysRemaining  int           `json:"days_remaining"`
	HoursRemaining int           `json:"hours_remaining"`
}

// Package notifier отправляет доменные события в слой уведомлений.
// Отправка выполняется по принципу fire-and-forget: ошибки публикации
// только логируются и никогда не влияют на исход операции.
package notifier

import (
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-gate/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gate/internal/rabbitmq"
)

// Notifier описывает события, о которых сообщает сервис.
type Notifier interface {
	SignupCompleted(userUID, email string)
	TrialProvisioned(userUID, email string, endDate time.Time)
	ExpiredLoginRejected(userUID, email string, endDate time.Time)
}

// Event — полезная нагрузка события уведомления.
type Event struct {
	Kind    string    `json:"kind"`
	UserUID string    `json:"user_uid"`
	Email   string    `json:"email"`
	EndDate time.Time `json:"end_date,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// AMQPNotifier публикует события в обменник notifications.
type AMQPNotifier struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// New создает AMQPNotifier поверх открытого канала RabbitMQ.
func New(ch *amqp.Channel, log *slog.Logger) *AMQPNotifier {
	return &AMQPNotifier{ch: ch, log: log}
}

func (n *AMQPNotifier) publish(routingKey string, event Event) {
	event.SentAt = time.Now().UTC()
	if err := rabbitmq.PublishMessage(n.ch, "notifications", routingKey, event); err != nil {
		n.log.Warn("failed to publish notification",
			slog.String("kind", event.Kind), sl.Err(err))
	}
}

// SignupCompleted сообщает об успешной регистрации.
func (n *AMQPNotifier) SignupCompleted(userUID, email string) {
	n.publish("signup", Event{Kind: "signup_completed", UserUID: userUID, Email: email})
}

// TrialProvisioned сообщает о создании пробной подписки.
func (n *AMQPNotifier) TrialProvisioned(userUID, email string, endDate time.Time) {
	n.publish("trial", Event{Kind: "trial_provisioned", UserUID: userUID, Email: email, EndDate: endDate})
}

// ExpiredLoginRejected сообщает об отклоненном входе с истекшей подпиской.
func (n *AMQPNotifier) ExpiredLoginRejected(userUID, email string, endDate time.Time) {
	n.publish("expired", Event{Kind: "expired_login_rejected", UserUID: userUID, Email: email, EndDate: endDate})
}

// Nop — заглушка для окружений без RabbitMQ.
type Nop struct{}

func (Nop) SignupCompleted(_, _ string)                   {}
func (Nop) TrialProvisioned(_, _ string, _ time.Time)     {}
func (Nop) ExpiredLoginRejected(_, _ string, _ time.Time) {}

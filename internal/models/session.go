package models

import "time"

// Session связывает пользователя с окном действия его токена.
// Сессия существует с момента успешной аутентификации до выхода
// или принудительного завершения при истекшей подписке.
type Session struct {
	Token       string    `json:"token"`
	UserUID     string    `json:"user_uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Package models содержит доменные структуры сервиса: пользователя,
// сессию и подписку. Структуры используются в бизнес‑логике и при
// работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Учетная запись создается провайдером идентификации при регистрации
// и после этого неизменяема, кроме метаданных.
type User struct {
	UID          string            // Уникальный идентификатор пользователя
	Email        string            // Электронная почта (уникальная)
	PasswordHash string            // Хэш пароля пользователя
	Metadata     map[string]string // Произвольные метаданные, в т.ч. display_name
	CreatedAt    time.Time         // Дата создания учетной записи
}

// DefaultDisplayName используется, когда в метаданных пользователя
// не задано отображаемое имя.
const DefaultDisplayName = "User"

// DisplayName возвращает отображаемое имя из метаданных
// или DefaultDisplayName, если оно не задано.
func (u *User) DisplayName() string {
	if u == nil || u.Metadata == nil {
		return DefaultDisplayName
	}
	if name, ok := u.Metadata["display_name"]; ok && name != "" {
		return name
	}
	return DefaultDisplayName
}

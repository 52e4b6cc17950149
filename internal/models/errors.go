package models

import "errors"

// Ошибки доменного уровня. Сервисы оборачивают сырые ошибки транспорта
// в эти значения, а HTTP-слой сопоставляет их со статусами через errors.Is.
var (
	// ErrInvalidCredentials неверный пароль или неизвестный email
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSignupRejected регистрация отклонена провайдером идентификации
	ErrSignupRejected = errors.New("signup rejected")

	// ErrUserExists пользователь с таким email уже зарегистрирован
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrExpiredSubscription подписка истекла, вход запрещен
	ErrExpiredSubscription = errors.New("subscription has expired, renewal required")

	// ErrProvisioningFailed не удалось создать пробную подписку
	ErrProvisioningFailed = errors.New("failed to provision trial subscription")

	// ErrSubscriptionNotFound подписка не найдена (отличается от сбоя хранилища)
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrLookupFailed временная ошибка хранилища при поиске подписки
	ErrLookupFailed = errors.New("subscription lookup failed")
)

// Package services содержит провайдер идентификации: проверку учетных
// данных, регистрацию пользователей и работу с токенами сессий.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-gate/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-gate/internal/lib/password"
	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// IdentityService отвечает за проверку учетных данных, регистрацию и токены.
type IdentityService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewIdentityService создает новый экземпляр IdentityService.
func NewIdentityService(users UserRepository, jwtMaker jwt.Maker) *IdentityService {
	return &IdentityService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// SignIn проверяет пароль пользователя и выпускает токен сессии.
// Неизвестный email и неверный пароль неразличимы для вызывающей стороны:
// оба случая дают models.ErrInvalidCredentials.
func (s *IdentityService) SignIn(ctx context.Context, email, rawPassword string) (*models.Session, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, nil, models.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, nil, models.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.DisplayName())
	if err != nil {
		return nil, nil, err
	}
	sess := &models.Session{
		Token:       token,
		UserUID:     user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
		ExpiresAt:   expiresAt,
	}
	return sess, user, nil
}

// SignUp создает нового пользователя с хэшированием пароля.
// Отображаемое имя сохраняется в метаданных учетной записи.
func (s *IdentityService) SignUp(ctx context.Context, email, rawPassword, displayName string) (*models.User, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hashed,
		Metadata:     map[string]string{"display_name": displayName},
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrUserExists) {
			return nil, fmt.Errorf("%w: %s", models.ErrSignupRejected, models.ErrUserExists)
		}
		return nil, err
	}
	user.UID = uid
	return &user, nil
}

// ValidateToken проверяет JWT и восстанавливает из него сессию.
func (s *IdentityService) ValidateToken(_ context.Context, token string) (*models.Session, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		Token:       token,
		UserUID:     claims.UserUID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		IssuedAt:    claims.IssuedAt.Time,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

type GateMock struct {
	mock.Mock
}

func (m *GateMock) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	sess, _ := args.Get(0).(*models.Session)
	return sess, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	gateMock := new(GateMock)
	logger := newNoopLogger()

	handler := New(logger, gateMock)

	sess := &models.Session{
		Token:       "tok",
		UserUID:     "uid-1",
		Email:       "user1@example.com",
		DisplayName: "User One",
		ExpiresAt:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSess       *models.Session
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockSess:       sess,
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"token":        "tok",
				"user_uid":     "uid-1",
				"email":        "user1@example.com",
				"display_name": "User One",
			},
			wantError:  "",
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantData:       nil,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "user1@example.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantData:       nil,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "invalid credentials",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockSess:       nil,
			mockErr:        models.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantData:       nil,
			wantError:      "invalid credentials",
			wantStatus:     "Error",
		},
		{
			name:           "expired subscription",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockSess:       nil,
			mockErr:        models.ErrExpiredSubscription,
			wantStatusCode: http.StatusForbidden,
			wantData:       nil,
			wantError:      "subscription has expired, renewal required",
			wantStatus:     "Error",
		},
		{
			name:           "internal error",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockSess:       nil,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantData:       nil,
			wantError:      "internal service error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateMock.ExpectedCalls = nil
			gateMock.Calls = nil

			if tt.mockSess != nil || tt.mockErr != nil {
				gateMock.On("Authenticate", mock.Anything, tt.requestBody.(Request).Email, tt.requestBody.(Request).Password).
					Return(tt.mockSess, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			} else {
				assert.Nil(t, got["data"])
			}

			if tt.mockSess != nil || tt.mockErr != nil {
				gateMock.AssertExpectations(t)
			}
		})
	}
}

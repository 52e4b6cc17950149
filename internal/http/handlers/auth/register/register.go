package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-gate/internal/http/response"
	"github.com/magabrotheeeer/subscription-gate/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

// Request — входные данные для регистрации
type Request struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=50"`
}

// Service описывает интерфейс регистрации с провижинингом пробной подписки.
type Service interface {
	RegisterAndProvision(ctx context.Context, email, password, displayName string) (*models.User, error)
}

type Handler struct {
	log      *slog.Logger
	gate     Service
	validate *validator.Validate
}

func New(log *slog.Logger, gate Service) *Handler {
	return &Handler{
		log:      log,
		gate:     gate,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.gate.RegisterAndProvision(r.Context(), req.Email, req.Password, req.DisplayName)
	switch {
	case errors.Is(err, models.ErrSignupRejected):
		log.Error("registration rejected", sl.Err(err))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, models.ErrProvisioningFailed):
		log.Error("trial provisioning failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	// Сессия намеренно не создается: после регистрации требуется явный вход.
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid": user.UID,
		"email":    user.Email,
		"message":  "user created successfully with trial subscription",
	}))
}

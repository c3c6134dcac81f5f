package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// Handler handles registration and login.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRequest is the request body for account registration and login.
type RegisterRequest struct {
	Body struct {
		Email    string `doc:"Account email"              example:"owner@example.com" json:"email,omitempty"`
		Password string `doc:"Password, 6 chars minimum"  json:"password,omitempty"`
	}
}

// TokenResponse carries a bearer token and the account it identifies.
type TokenResponse struct {
	Body struct {
		Token  string `doc:"Bearer token, valid 7 days" json:"token"`
		UserID string `doc:"Account id"                 json:"userId"`
	}
}

// Register creates a new account.
func (h *Handler) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	creds, err := h.service.Register(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			return nil, huma.Error400BadRequest("email already exists")
		case errors.Is(err, ErrInvalidInput):
			return nil, huma.Error400BadRequest("invalid input")
		default:
			h.logger.Error("registration failed", zap.Error(err))

			return nil, huma.Error500InternalServerError("registration failed")
		}
	}

	return tokenResponse(creds), nil
}

// Login authenticates an account.
func (h *Handler) Login(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	creds, err := h.service.Login(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}

		h.logger.Error("login failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("login failed")
	}

	return tokenResponse(creds), nil
}

func tokenResponse(creds *Credentials) *TokenResponse {
	resp := &TokenResponse{}
	resp.Body.Token = creds.Token
	resp.Body.UserID = creds.AccountID

	return resp
}

// RegisterRoutes registers the auth routes. Both are public.
func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "auth-register",
		Method:      http.MethodPost,
		Path:        "/api/auth/register",
		Summary:     "Register an account",
		Tags:        []string{"Auth"},
	}, h.Register)

	huma.Register(api, huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Tags:        []string{"Auth"},
	}, h.Login)
}

package delivery

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mfigueiredo/storefront-api/internal/domain/users"
	"github.com/mfigueiredo/storefront-api/pkg/middleware"
	"github.com/mfigueiredo/storefront-api/pkg/response"
)

type UserUsecase interface {
	Register(ctx context.Context, payload users.RegisterRequest) (*users.RegisterResponse, error)
	Login(ctx context.Context, payload users.LoginRequest) (*users.LoginResponse, error)
	RotateRefreshToken(ctx context.Context, token string) (*users.RefreshTokenResponse, error)
}

type Handler struct {
	usecase UserUsecase
}

func NewHandler(usecase UserUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Register handles POST /auth/register
func (h *Handler) Register(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req users.RegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.Error().Err(err).Msg("Failed to bind register request")
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		logger.Warn().Err(err).Msg("Register validation failed")
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.Register(c.Request().Context(), req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Str("email", req.Email).Msg("Registration rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Internal server error during registration")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("user_id", result.ID).Msg("User registered successfully")
	return response.Success(c, http.StatusCreated, "user_registered_successfully", result)
}

// Login handles POST /auth/login
func (h *Handler) Login(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req users.LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error().Err(err).Msg("Failed to bind login request")
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		logger.Warn().Err(err).Msg("Login validation failed")
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.Login(c.Request().Context(), req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Msg("Login failed")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Internal server error during login")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Msg("User logged in successfully")
	return response.Success(c, http.StatusOK, "login_successful", result)
}

// RefreshToken handles POST /auth/refresh-token. The refresh token is
// presented as a bearer credential in the Authorization header.
func (h *Handler) RefreshToken(c echo.Context) error {
	logger := middleware.GetLogger(c)

	token := c.Request().Header.Get(echo.HeaderAuthorization)
	if token == "" {
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "missing refresh token")
	}

	result, err := h.usecase.RotateRefreshToken(c.Request().Context(), token)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Msg("Refresh token rotation rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Internal server error during token refresh")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Msg("Refresh token rotated")
	return response.Success(c, http.StatusOK, "token_refreshed_successfully", result)
}

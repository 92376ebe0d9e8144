package delivery

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mfigueiredo/storefront-api/internal/domain/clients"
	"github.com/mfigueiredo/storefront-api/pkg/middleware"
	"github.com/mfigueiredo/storefront-api/pkg/response"
)

type ClientUsecase interface {
	CreateClient(ctx context.Context, payload clients.ClientRequest) (*clients.ClientView, error)
	GetClient(ctx context.Context, id string) (*clients.ClientView, error)
	ListClients(ctx context.Context, filter clients.ListFilter) ([]clients.ClientView, error)
	UpdateClient(ctx context.Context, id string, payload clients.ClientRequest) (*clients.ClientView, error)
	DeleteClient(ctx context.Context, id string) error
}

type Handler struct {
	usecase ClientUsecase
}

func NewHandler(usecase ClientUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// CreateClient handles POST /api/v1/clients
func (h *Handler) CreateClient(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req clients.ClientRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.CreateClient(c.Request().Context(), req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("client_id", result.ID).Msg("Client created")
	return response.Success(c, http.StatusCreated, "client_created", result)
}

// GetClient handles GET /api/v1/clients/:id
func (h *Handler) GetClient(c echo.Context) error {
	result, err := h.usecase.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", result)
}

// ListClients handles GET /api/v1/clients?name=&email=
func (h *Handler) ListClients(c echo.Context) error {
	filter := clients.ListFilter{
		Name:  c.QueryParam("name"),
		Email: c.QueryParam("email"),
	}

	result, err := h.usecase.ListClients(c.Request().Context(), filter)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", result)
}

// UpdateClient handles PUT /api/v1/clients/:id
func (h *Handler) UpdateClient(c echo.Context) error {
	var req clients.ClientRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.UpdateClient(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "client_updated", result)
}

// DeleteClient handles DELETE /api/v1/clients/:id
func (h *Handler) DeleteClient(c echo.Context) error {
	if err := h.usecase.DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

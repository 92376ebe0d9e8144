package delivery

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mfigueiredo/storefront-api/internal/domain/orders"
	"github.com/mfigueiredo/storefront-api/pkg/middleware"
	"github.com/mfigueiredo/storefront-api/pkg/response"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, req orders.CreateOrderRequest) (*orders.OrderView, error)
	GetOrder(ctx context.Context, id string) (*orders.OrderView, error)
	ListOrders(ctx context.Context, filter orders.ListFilter) (*orders.OrderListWrapper, error)
	UpdateOrder(ctx context.Context, id string, req orders.UpdateOrderRequest) (*orders.OrderView, error)
	DeleteOrder(ctx context.Context, id string) error
}

type OrderHandler struct {
	usecase OrderUsecase
}

func NewOrderHandler(usecase OrderUsecase) *OrderHandler {
	return &OrderHandler{usecase: usecase}
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req orders.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.CreateOrder(c.Request().Context(), req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Failed to create order")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusCreated, "order_created", result)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	result, err := h.usecase.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", result)
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	filter := orders.ListFilter{
		Status:          c.QueryParam("status"),
		ProductsSection: c.QueryParam("products_section"),
		ClientID:        c.QueryParam("client_id"),
	}

	if raw := c.QueryParam("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "invalid_start_date", "expected YYYY-MM-DD")
		}
		filter.StartDate = &parsed
	}
	if raw := c.QueryParam("final_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "invalid_final_date", "expected YYYY-MM-DD")
		}
		filter.FinalDate = &parsed
	}
	if raw := c.QueryParam("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filter.Page = page
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	result, err := h.usecase.ListOrders(c.Request().Context(), filter)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", result)
}

// UpdateOrder handles PUT /api/v1/orders/:id
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	var req orders.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.UpdateOrder(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "order_updated", result)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	if err := h.usecase.DeleteOrder(c.Request().Context(), c.Param("id")); err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

package delivery

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mfigueiredo/storefront-api/internal/domain/products"
	"github.com/mfigueiredo/storefront-api/pkg/middleware"
	"github.com/mfigueiredo/storefront-api/pkg/response"
)

type ProductUsecase interface {
	CreateProduct(ctx context.Context, payload products.ProductRequest) (*products.ProductView, error)
	GetProduct(ctx context.Context, id string) (*products.ProductView, error)
	ListProducts(ctx context.Context, filter products.ListFilter) (*products.ProductListWrapper, error)
	UpdateProduct(ctx context.Context, id string, payload products.ProductRequest) (*products.ProductView, error)
	DeleteProduct(ctx context.Context, id string) error
	UploadProductImage(ctx context.Context, productID string, file multipart.File, fileHeader *multipart.FileHeader) (*products.ImageView, error)
}

type ProductHandler struct {
	usecase ProductUsecase
}

func NewProductHandler(usecase ProductUsecase) *ProductHandler {
	return &ProductHandler{usecase: usecase}
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req products.ProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.CreateProduct(c.Request().Context(), req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("product_id", result.ID).Msg("Product created")
	return response.Success(c, http.StatusCreated, "product_created", result)
}

// GetProduct handles GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	result, err := h.usecase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", result)
}

// ListProducts handles GET /api/v1/products?section=&available=&page=&limit=
func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter := products.ListFilter{
		Section: c.QueryParam("section"),
	}

	if v := c.QueryParam("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "invalid_available_filter", err.Error())
		}
		filter.Available = &available
	}

	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	result, err := h.usecase.ListProducts(c.Request().Context(), filter)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", result)
}

// UpdateProduct handles PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req products.ProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.UpdateProduct(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "product_updated", result)
}

// DeleteProduct handles DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.usecase.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /api/v1/products/:id/images (multipart)
func (h *ProductHandler) UploadImage(c echo.Context) error {
	logger := middleware.GetLogger(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "missing_image_file", err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_image_file", err.Error())
	}
	defer file.Close()

	result, err := h.usecase.UploadProductImage(c.Request().Context(), c.Param("id"), file, fileHeader)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("product_id", c.Param("id")).Str("image_url", result.ImageURL).Msg("Product image uploaded")
	return response.Success(c, http.StatusCreated, "image_uploaded", result)
}

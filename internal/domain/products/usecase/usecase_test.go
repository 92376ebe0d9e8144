package usecase

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mfigueiredo/storefront-api/internal/domain/products"
	"github.com/mfigueiredo/storefront-api/internal/domain/products/repository"
	"github.com/mfigueiredo/storefront-api/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeStorage records calls instead of talking to MinIO.
type fakeStorage struct {
	uploads []string
	deletes []string
}

func (s *fakeStorage) UploadProductImage(_ context.Context, _ multipart.File, fileHeader *multipart.FileHeader, productID string) (string, error) {
	s.uploads = append(s.uploads, productID)
	return fmt.Sprintf("http://storage.local/product-images/products/%s/%s", productID, fileHeader.Filename), nil
}

func (s *fakeStorage) DeleteProductImages(_ context.Context, productID string) error {
	s.deletes = append(s.deletes, productID)
	return nil
}

func newTestUsecase(t *testing.T) (*Usecase, *fakeStorage) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&products.Product{},
		&products.ProductImage{},
		&products.Category{},
		&products.ProductCategory{},
	))

	storage := &fakeStorage{}
	return NewUsecase(repository.NewProduct(db), storage), storage
}

func productRequest(barcode string) products.ProductRequest {
	available := true
	return products.ProductRequest{
		Name:        "Olive Oil 500ml",
		Price:       4000,
		Description: "Extra virgin olive oil",
		Barcode:     barcode,
		Section:     "grocery",
		Stock:       25,
		ExpireDate:  time.Now().UTC().AddDate(1, 0, 0),
		Available:   &available,
	}
}

func requireAPIError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var apiErr *response.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, code, apiErr.Code)
	assert.Equal(t, message, apiErr.Message)
}

func TestCreateProduct(t *testing.T) {
	uc, _ := newTestUsecase(t)

	req := productRequest("7891000100103")
	req.Images = []products.ImageRequest{
		{ImageURL: "http://storage.local/product-images/a.png"},
	}

	created, err := uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "prod_"))
	assert.Equal(t, int64(4000), created.Price)
	require.Len(t, created.Images, 1)
	assert.True(t, strings.HasPrefix(created.Images[0].ID, "img_"))
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	uc, _ := newTestUsecase(t)

	_, err := uc.CreateProduct(context.Background(), productRequest("7891000100103"))
	require.NoError(t, err)

	_, err = uc.CreateProduct(context.Background(), productRequest("7891000100103"))
	requireAPIError(t, err, http.StatusConflict, "barcode_already_registered")
}

func TestCreateProductUnknownCategory(t *testing.T) {
	uc, _ := newTestUsecase(t)

	req := productRequest("7891000100103")
	req.CategoryIDs = []string{"cat_missing"}

	_, err := uc.CreateProduct(context.Background(), req)
	requireAPIError(t, err, http.StatusNotFound, "category_not_found")
}

func TestCreateProductWithCategories(t *testing.T) {
	uc, _ := newTestUsecase(t)

	category, err := uc.CreateCategory(context.Background(), products.CategoryRequest{Name: "Pantry"})
	require.NoError(t, err)

	req := productRequest("7891000100103")
	req.CategoryIDs = []string{category.ID}

	created, err := uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "Pantry", created.Categories[0].Name)
}

func TestListProductsPagination(t *testing.T) {
	uc, _ := newTestUsecase(t)

	for i := 0; i < 3; i++ {
		req := productRequest(fmt.Sprintf("barcode-%d", i))
		if i == 2 {
			req.Section = "bakery"
		}
		_, err := uc.CreateProduct(context.Background(), req)
		require.NoError(t, err)
	}

	page, err := uc.ListProducts(context.Background(), products.ListFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, int64(3), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	bySection, err := uc.ListProducts(context.Background(), products.ListFilter{Section: "bakery"})
	require.NoError(t, err)
	assert.Len(t, bySection.Products, 1)
}

func TestUpdateProduct(t *testing.T) {
	uc, _ := newTestUsecase(t)

	created, err := uc.CreateProduct(context.Background(), productRequest("7891000100103"))
	require.NoError(t, err)

	req := productRequest("7891000100103")
	req.Name = "Olive Oil 1L"
	req.Price = 7000

	updated, err := uc.UpdateProduct(context.Background(), created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Olive Oil 1L", updated.Name)
	assert.Equal(t, int64(7000), updated.Price)

	_, err = uc.UpdateProduct(context.Background(), "prod_missing", req)
	requireAPIError(t, err, http.StatusNotFound, "product_not_found")
}

func TestDeleteProduct(t *testing.T) {
	uc, storage := newTestUsecase(t)

	created, err := uc.CreateProduct(context.Background(), productRequest("7891000100103"))
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProduct(context.Background(), created.ID))
	assert.Equal(t, []string{created.ID}, storage.deletes)

	err = uc.DeleteProduct(context.Background(), created.ID)
	requireAPIError(t, err, http.StatusNotFound, "product_not_found")
}

func TestCategoryLifecycle(t *testing.T) {
	uc, _ := newTestUsecase(t)

	category, err := uc.CreateCategory(context.Background(), products.CategoryRequest{Name: "Pantry"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(category.ID, "cat_"))

	req := productRequest("7891000100103")
	req.CategoryIDs = []string{category.ID}
	_, err = uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	listed, err := uc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Pantry", listed[0].Name)
	require.Len(t, listed[0].Products, 1)
	assert.Empty(t, listed[0].Products[0].Categories)

	renamed, err := uc.UpdateCategory(context.Background(), category.ID, products.CategoryRequest{Name: "Dry Goods"})
	require.NoError(t, err)
	assert.Equal(t, "Dry Goods", renamed.Name)

	require.NoError(t, uc.DeleteCategory(context.Background(), category.ID))

	err = uc.DeleteCategory(context.Background(), category.ID)
	requireAPIError(t, err, http.StatusNotFound, "category_not_found")

	// Products survive their category's deletion.
	after, err := uc.ListProducts(context.Background(), products.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, after.Products, 1)
}

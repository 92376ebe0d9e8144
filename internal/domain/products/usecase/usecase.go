package usecase

import (
	"context"
	"math"
	"mime/multipart"
	"time"

	"github.com/mfigueiredo/storefront-api/internal/domain/products"
	"github.com/mfigueiredo/storefront-api/internal/platform/database"
	"github.com/mfigueiredo/storefront-api/pkg/response"
	"github.com/segmentio/ksuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product products.Product, images []products.ProductImage, categoryIDs []string) error
	FindProductByID(ctx context.Context, id string) (*products.Product, error)
	FindProductImages(ctx context.Context, productID string) ([]products.ProductImage, error)
	FindProductCategories(ctx context.Context, productID string) ([]products.Category, error)
	FindAllProducts(ctx context.Context, filter products.ListFilter) ([]products.Product, int64, error)
	UpdateProduct(ctx context.Context, product *products.Product, images []products.ProductImage, categoryIDs []string) error
	DeleteProduct(ctx context.Context, id string) error
	AddProductImage(ctx context.Context, image products.ProductImage) error

	CreateCategory(ctx context.Context, category products.Category) error
	FindCategoryByID(ctx context.Context, id string) (*products.Category, error)
	FindAllCategories(ctx context.Context) ([]products.Category, error)
	FindProductsByCategory(ctx context.Context, categoryID string) ([]products.Product, error)
	UpdateCategory(ctx context.Context, category *products.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// ImageStorage abstracts the object store holding product image binaries.
type ImageStorage interface {
	UploadProductImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, productID string) (string, error)
	DeleteProductImages(ctx context.Context, productID string) error
}

type Usecase struct {
	repo    ProductRepository
	storage ImageStorage
}

func NewUsecase(repo ProductRepository, storage ImageStorage) *Usecase {
	return &Usecase{
		repo:    repo,
		storage: storage,
	}
}

func (u Usecase) CreateProduct(ctx context.Context, payload products.ProductRequest) (*products.ProductView, error) {
	if err := u.checkCategories(ctx, payload.CategoryIDs); err != nil {
		return nil, err
	}

	product := products.Product{
		ID:          "prod_" + ksuid.New().String(),
		Name:        payload.Name,
		Price:       payload.Price,
		Description: payload.Description,
		Barcode:     payload.Barcode,
		Section:     payload.Section,
		Stock:       payload.Stock,
		ExpireDate:  payload.ExpireDate,
		Available:   *payload.Available,
	}

	images := buildImages(payload.Images)

	if err := u.repo.CreateProduct(ctx, product, images, payload.CategoryIDs); err != nil {
		if database.IsDuplicateKeyErr(err) {
			return nil, response.Conflict("barcode_already_registered")
		}
		return nil, response.InternalServerError(err)
	}

	return u.assembleView(ctx, &product)
}

func (u Usecase) GetProduct(ctx context.Context, id string) (*products.ProductView, error) {
	product, err := u.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if product == nil {
		return nil, response.NotFound("product_not_found")
	}
	return u.assembleView(ctx, product)
}

func (u Usecase) ListProducts(ctx context.Context, filter products.ListFilter) (*products.ProductListWrapper, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	list, total, err := u.repo.FindAllProducts(ctx, filter)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	views := make([]products.ProductView, 0, len(list))
	for i := range list {
		view, err := u.assembleView(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return &products.ProductListWrapper{
		Products: views,
		Pagination: products.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			PerPage:     filter.Limit,
		},
	}, nil
}

func (u Usecase) UpdateProduct(ctx context.Context, id string, payload products.ProductRequest) (*products.ProductView, error) {
	product, err := u.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if product == nil {
		return nil, response.NotFound("product_not_found")
	}

	if err := u.checkCategories(ctx, payload.CategoryIDs); err != nil {
		return nil, err
	}

	product.Name = payload.Name
	product.Price = payload.Price
	product.Description = payload.Description
	product.Barcode = payload.Barcode
	product.Section = payload.Section
	product.Stock = payload.Stock
	product.ExpireDate = payload.ExpireDate
	product.Available = *payload.Available

	images := buildImages(payload.Images)

	if err := u.repo.UpdateProduct(ctx, product, images, payload.CategoryIDs); err != nil {
		if database.IsDuplicateKeyErr(err) {
			return nil, response.Conflict("barcode_already_registered")
		}
		return nil, response.InternalServerError(err)
	}

	return u.assembleView(ctx, product)
}

func (u Usecase) DeleteProduct(ctx context.Context, id string) error {
	product, err := u.repo.FindProductByID(ctx, id)
	if err != nil {
		return response.InternalServerError(err)
	}
	if product == nil {
		return response.NotFound("product_not_found")
	}

	if err := u.repo.DeleteProduct(ctx, id); err != nil {
		return response.InternalServerError(err)
	}

	// Stored binaries are cleaned up best-effort after the rows are gone.
	if u.storage != nil {
		_ = u.storage.DeleteProductImages(ctx, id)
	}
	return nil
}

// UploadProductImage streams an image binary to the object store and links
// its URL to the product.
func (u Usecase) UploadProductImage(ctx context.Context, productID string, file multipart.File, fileHeader *multipart.FileHeader) (*products.ImageView, error) {
	product, err := u.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if product == nil {
		return nil, response.NotFound("product_not_found")
	}

	url, err := u.storage.UploadProductImage(ctx, file, fileHeader, productID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	image := products.ProductImage{
		ID:        "img_" + ksuid.New().String(),
		ProductID: productID,
		ImageURL:  url,
	}
	if err := u.repo.AddProductImage(ctx, image); err != nil {
		return nil, response.InternalServerError(err)
	}

	return &products.ImageView{ID: image.ID, ImageURL: image.ImageURL}, nil
}

// Category operations

func (u Usecase) CreateCategory(ctx context.Context, payload products.CategoryRequest) (*products.CategoryView, error) {
	category := products.Category{
		ID:   "cat_" + ksuid.New().String(),
		Name: payload.Name,
	}
	if err := u.repo.CreateCategory(ctx, category); err != nil {
		return nil, response.InternalServerError(err)
	}
	return &products.CategoryView{ID: category.ID, Name: category.Name}, nil
}

// ListCategories embeds each category's products with their images.
func (u Usecase) ListCategories(ctx context.Context) ([]products.CategoryWithProducts, error) {
	categories, err := u.repo.FindAllCategories(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	result := make([]products.CategoryWithProducts, 0, len(categories))
	for _, category := range categories {
		linked, err := u.repo.FindProductsByCategory(ctx, category.ID)
		if err != nil {
			return nil, response.InternalServerError(err)
		}

		views := make([]products.ProductView, 0, len(linked))
		for i := range linked {
			view, err := u.assembleView(ctx, &linked[i])
			if err != nil {
				return nil, err
			}
			view.Categories = nil
			views = append(views, *view)
		}

		result = append(result, products.CategoryWithProducts{
			ID:       category.ID,
			Name:     category.Name,
			Products: views,
		})
	}
	return result, nil
}

func (u Usecase) UpdateCategory(ctx context.Context, id string, payload products.CategoryRequest) (*products.CategoryView, error) {
	category, err := u.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if category == nil {
		return nil, response.NotFound("category_not_found")
	}

	category.Name = payload.Name
	if err := u.repo.UpdateCategory(ctx, category); err != nil {
		return nil, response.InternalServerError(err)
	}
	return &products.CategoryView{ID: category.ID, Name: category.Name}, nil
}

func (u Usecase) DeleteCategory(ctx context.Context, id string) error {
	category, err := u.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return response.InternalServerError(err)
	}
	if category == nil {
		return response.NotFound("category_not_found")
	}
	if err := u.repo.DeleteCategory(ctx, id); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func (u Usecase) checkCategories(ctx context.Context, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		category, err := u.repo.FindCategoryByID(ctx, categoryID)
		if err != nil {
			return response.InternalServerError(err)
		}
		if category == nil {
			return response.NotFound("category_not_found")
		}
	}
	return nil
}

func (u Usecase) assembleView(ctx context.Context, product *products.Product) (*products.ProductView, error) {
	images, err := u.repo.FindProductImages(ctx, product.ID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	categories, err := u.repo.FindProductCategories(ctx, product.ID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	imageViews := make([]products.ImageView, len(images))
	for i, image := range images {
		imageViews[i] = products.ImageView{ID: image.ID, ImageURL: image.ImageURL}
	}
	categoryViews := make([]products.CategoryView, len(categories))
	for i, category := range categories {
		categoryViews[i] = products.CategoryView{ID: category.ID, Name: category.Name}
	}

	return &products.ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		Barcode:     product.Barcode,
		Section:     product.Section,
		Stock:       product.Stock,
		ExpireDate:  product.ExpireDate.Format(time.RFC3339),
		Available:   product.Available,
		Images:      imageViews,
		Categories:  categoryViews,
	}, nil
}

func buildImages(reqs []products.ImageRequest) []products.ProductImage {
	images := make([]products.ProductImage, len(reqs))
	for i, img := range reqs {
		images[i] = products.ProductImage{
			ID:       "img_" + ksuid.New().String(),
			ImageURL: img.ImageURL,
		}
	}
	return images
}

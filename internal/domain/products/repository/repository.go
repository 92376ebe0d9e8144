package repository

import (
	"context"
	"errors"

	"github.com/mfigueiredo/storefront-api/internal/domain/products"
	"gorm.io/gorm"
)

type Product struct {
	db *gorm.DB
}

func NewProduct(db *gorm.DB) *Product {
	return &Product{db: db}
}

// CreateProduct writes the product row plus its image and category-join
// rows as one transaction; a failure on any row rolls back all of them.
func (r Product) CreateProduct(ctx context.Context, product products.Product, images []products.ProductImage, categoryIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ProductID = product.ID
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}
		for _, categoryID := range categoryIDs {
			join := products.ProductCategory{ProductID: product.ID, CategoryID: categoryID}
			if err := tx.Create(&join).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r Product) FindProductByID(ctx context.Context, id string) (*products.Product, error) {
	var product products.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r Product) FindProductImages(ctx context.Context, productID string) ([]products.ProductImage, error) {
	var images []products.ProductImage
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r Product) FindProductCategories(ctx context.Context, productID string) ([]products.Category, error) {
	var categories []products.Category
	err := r.db.WithContext(ctx).
		Table("categories").
		Select("categories.*").
		Joins("JOIN product_category_join ON product_category_join.category_id = categories.id").
		Where("product_category_join.product_id = ?", productID).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r Product) FindAllProducts(ctx context.Context, filter products.ListFilter) ([]products.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&products.Product{})

	if filter.Section != "" {
		query = query.Where("section = ?", filter.Section)
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var result []products.Product
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

// UpdateProduct has full-replace semantics: product fields, image rows and
// category joins are all rewritten from the payload in one transaction.
func (r Product) UpdateProduct(ctx context.Context, product *products.Product, images []products.ProductImage, categoryIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&products.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"name":        product.Name,
				"price":       product.Price,
				"description": product.Description,
				"barcode":     product.Barcode,
				"section":     product.Section,
				"stock":       product.Stock,
				"expire_date": product.ExpireDate,
				"available":   product.Available,
			}).Error
		if err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&products.ProductImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ProductID = product.ID
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&products.ProductCategory{}).Error; err != nil {
			return err
		}
		for _, categoryID := range categoryIDs {
			join := products.ProductCategory{ProductID: product.ID, CategoryID: categoryID}
			if err := tx.Create(&join).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteProduct removes the product with its image rows and category joins
// in one transaction.
func (r Product) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&products.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&products.ProductCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&products.Product{}).Error
	})
}

func (r Product) AddProductImage(ctx context.Context, image products.ProductImage) error {
	return r.db.WithContext(ctx).Create(&image).Error
}

// Category operations

func (r Product) CreateCategory(ctx context.Context, category products.Category) error {
	return r.db.WithContext(ctx).Create(&category).Error
}

func (r Product) FindCategoryByID(ctx context.Context, id string) (*products.Category, error) {
	var category products.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r Product) FindAllCategories(ctx context.Context) ([]products.Category, error) {
	var categories []products.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r Product) FindProductsByCategory(ctx context.Context, categoryID string) ([]products.Product, error) {
	var result []products.Product
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.*").
		Joins("JOIN product_category_join ON product_category_join.product_id = products.id").
		Where("product_category_join.category_id = ?", categoryID).
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r Product) UpdateCategory(ctx context.Context, category *products.Category) error {
	return r.db.WithContext(ctx).Model(&products.Category{}).
		Where("id = ?", category.ID).
		Update("name", category.Name).Error
}

func (r Product) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&products.ProductCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&products.Category{}).Error
	})
}

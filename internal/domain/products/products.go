package products

import "time"

// Product is a sellable item. Price is an integer amount in minor currency
// units; order totals are always recomputed from it, never trusted from
// the caller.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Price       int64     `json:"price" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Barcode     string    `json:"barcode" gorm:"type:varchar(64);uniqueIndex;not null"`
	Section     string    `json:"section" gorm:"type:varchar(100);not null"`
	Stock       int       `json:"stock" gorm:"not null"`
	ExpireDate  time.Time `json:"expire_date" gorm:"not null"`
	Available   bool      `json:"available" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

type ProductImage struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(40)"`
	ProductID string `json:"product_id" gorm:"type:varchar(40);index;not null"`
	ImageURL  string `json:"image_url" gorm:"type:varchar(512);not null"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

type Category struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Name string `json:"name" gorm:"type:varchar(100);not null"`
}

func (Category) TableName() string {
	return "categories"
}

// ProductCategory joins products and categories many-to-many.
type ProductCategory struct {
	ProductID  string `json:"product_id" gorm:"primaryKey;type:varchar(40)"`
	CategoryID string `json:"category_id" gorm:"primaryKey;type:varchar(40)"`
}

func (ProductCategory) TableName() string {
	return "product_category_join"
}

// Request DTOs

type ImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

type ProductRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=255"`
	Price       int64          `json:"price" validate:"gte=0"`
	Description string         `json:"description" validate:"required"`
	Barcode     string         `json:"barcode" validate:"required,max=64"`
	Section     string         `json:"section" validate:"required,max=100"`
	Stock       int            `json:"stock" validate:"gte=0"`
	ExpireDate  time.Time      `json:"expire_date" validate:"required"`
	Available   *bool          `json:"available" validate:"required"`
	Images      []ImageRequest `json:"images" validate:"dive"`
	CategoryIDs []string       `json:"category_ids"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Response DTOs

type ImageView struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
}

type CategoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Price       int64          `json:"price"`
	Description string         `json:"description"`
	Barcode     string         `json:"barcode"`
	Section     string         `json:"section"`
	Stock       int            `json:"stock"`
	ExpireDate  string         `json:"expire_date"`
	Available   bool           `json:"available"`
	Images      []ImageView    `json:"images"`
	Categories  []CategoryView `json:"categories,omitempty"`
}

// CategoryWithProducts is the category listing shape: each category embeds
// the products linked to it.
type CategoryWithProducts struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Products []ProductView `json:"products"`
}

// ListFilter narrows product listing.
type ListFilter struct {
	Section   string
	Available *bool
	Page      int
	Limit     int
}

type ProductListWrapper struct {
	Products   []ProductView  `json:"products"`
	Pagination PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	PerPage     int   `json:"per_page"`
}

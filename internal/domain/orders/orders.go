package orders

import "time"

// Order is the persisted order header. TotalPrice is derived at creation
// time from the current product prices and is immutable afterwards.
type Order struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(40)"`
	ClientID   string    `json:"client_id" gorm:"type:varchar(40);index;not null"`
	Status     string    `json:"status" gorm:"type:varchar(40);not null"`
	TotalPrice int64     `json:"total_price" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. Items only exist together with their
// header: both are written in the same transaction.
type OrderItem struct {
	OrderID   string `json:"order_id" gorm:"primaryKey;type:varchar(40)"`
	ProductID string `json:"product_id" gorm:"primaryKey;type:varchar(40)"`
	Quantity  int    `json:"quantity" gorm:"not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// ClientRef and ProductRef are the narrow projections of the client and
// product entities the order transaction needs.
type ClientRef struct {
	ID    string
	Name  string
	Email string
}

type ProductRef struct {
	ID    string
	Name  string
	Price int64
}

// Request DTOs

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	ClientID   string             `json:"client_id" validate:"required"`
	Status     string             `json:"status" validate:"required,max=40"`
	TotalPrice int64              `json:"total_price" validate:"gte=0"`
	Products   []OrderItemRequest `json:"products" validate:"dive"`
}

// UpdateOrderRequest re-points an order to a different client and/or
// mutates its status. The total is not updatable; it stays consistent with
// the line items by construction.
type UpdateOrderRequest struct {
	ClientID string `json:"client_id" validate:"required"`
	Status   string `json:"status" validate:"required,max=40"`
}

// Response DTOs

type OrderLineView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

type OrderView struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	CreatedAt  string          `json:"created_at"`
	Status     string          `json:"status"`
	TotalPrice int64           `json:"total_price"`
	Products   []OrderLineView `json:"products"`
}

// ListFilter narrows order listing. FinalDate is rounded up to the end of
// its day before querying.
type ListFilter struct {
	StartDate       *time.Time
	FinalDate       *time.Time
	Status          string
	ProductsSection string
	ClientID        string
	Page            int
	Limit           int
}

type OrderListWrapper struct {
	Orders     []OrderView    `json:"orders"`
	Pagination PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	PerPage     int   `json:"per_page"`
}

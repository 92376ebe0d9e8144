package repository

import (
	"context"
	"errors"

	"github.com/mfigueiredo/storefront-api/internal/domain/orders"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	CreateOrderWithItems(ctx context.Context, order orders.Order, items []orders.OrderItem) error
	FindOrderByID(ctx context.Context, id string) (*orders.Order, error)
	FindOrderItems(ctx context.Context, orderID string) ([]orders.OrderLineView, error)
	FindAllOrders(ctx context.Context, filter orders.ListFilter) ([]orders.Order, int64, error)
	UpdateOrder(ctx context.Context, order *orders.Order) error
	DeleteOrder(ctx context.Context, id string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateOrderWithItems persists the header and every line item as one
// transaction: after it returns either all rows exist or none do.
func (r *orderRepository) CreateOrderWithItems(ctx context.Context, order orders.Order, items []orders.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) FindOrderByID(ctx context.Context, id string) (*orders.Order, error) {
	var order orders.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindOrderItems returns the order's lines joined with the product name
// and current price.
func (r *orderRepository) FindOrderItems(ctx context.Context, orderID string) ([]orders.OrderLineView, error) {
	var lines []orders.OrderLineView
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, products.name, products.price, order_items.quantity").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *orderRepository) FindAllOrders(ctx context.Context, filter orders.ListFilter) ([]orders.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&orders.Order{})

	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.FinalDate != nil {
		query = query.Where("created_at <= ?", *filter.FinalDate)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.ProductsSection != "" {
		query = query.Where(
			"id IN (SELECT order_items.order_id FROM order_items JOIN products ON products.id = order_items.product_id WHERE products.section = ?)",
			filter.ProductsSection,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var result []orders.Order
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, order *orders.Order) error {
	return r.db.WithContext(ctx).Model(&orders.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"client_id": order.ClientID,
			"status":    order.Status,
		}).Error
}

// DeleteOrder removes the header and its line items in one transaction.
func (r *orderRepository) DeleteOrder(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orders.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&orders.Order{}).Error
	})
}

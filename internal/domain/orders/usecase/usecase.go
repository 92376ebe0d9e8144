package usecase

import (
	"context"
	"math"
	"time"

	"github.com/mfigueiredo/storefront-api/internal/domain/orders"
	orderRepository "github.com/mfigueiredo/storefront-api/internal/domain/orders/repository"
	"github.com/mfigueiredo/storefront-api/internal/platform/queue"
	"github.com/mfigueiredo/storefront-api/pkg/response"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/ksuid"
)

// ClientRepository defines the minimal client lookup the order usecase needs
type ClientRepository interface {
	FindClientByID(ctx context.Context, id string) (*orders.ClientRef, error)
}

// ProductRepository defines the minimal product lookup the order usecase needs
type ProductRepository interface {
	FindProductByID(ctx context.Context, id string) (*orders.ProductRef, error)
}

// EventPublisher publishes order events after a successful commit.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event queue.OrderPlacedEvent) error
}

// OrderUsecase defines the interface for order business logic
type OrderUsecase interface {
	CreateOrder(ctx context.Context, req orders.CreateOrderRequest) (*orders.OrderView, error)
	GetOrder(ctx context.Context, id string) (*orders.OrderView, error)
	ListOrders(ctx context.Context, filter orders.ListFilter) (*orders.OrderListWrapper, error)
	UpdateOrder(ctx context.Context, id string, req orders.UpdateOrderRequest) (*orders.OrderView, error)
	DeleteOrder(ctx context.Context, id string) error
}

type orderUsecase struct {
	orderRepo   orderRepository.OrderRepository
	clientRepo  ClientRepository
	productRepo ProductRepository
	events      EventPublisher
}

func NewOrderUsecase(
	orderRepo orderRepository.OrderRepository,
	clientRepo ClientRepository,
	productRepo ProductRepository,
	events EventPublisher,
) OrderUsecase {
	return &orderUsecase{
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		events:      events,
	}
}

// CreateOrder validates a proposed order against live client and product
// data and commits the header plus every line item atomically. The caller's
// total_price is only an integrity check: the authoritative total is
// recomputed here from current product prices.
func (u *orderUsecase) CreateOrder(ctx context.Context, req orders.CreateOrderRequest) (*orders.OrderView, error) {
	client, err := u.clientRepo.FindClientByID(ctx, req.ClientID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if client == nil {
		return nil, response.NotFound("client_not_found")
	}

	var calculatedTotal int64
	items := make([]orders.OrderItem, 0, len(req.Products))
	lines := make([]orders.OrderLineView, 0, len(req.Products))

	for _, item := range req.Products {
		if item.Quantity <= 0 {
			return nil, response.BadRequest("invalid_quantity", item.ProductID)
		}

		product, err := u.productRepo.FindProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, response.InternalServerError(err)
		}
		if product == nil {
			return nil, response.NotFound("product_not_found")
		}

		calculatedTotal += product.Price * int64(item.Quantity)
		items = append(items, orders.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
		})
		lines = append(lines, orders.OrderLineView{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
	}

	if len(items) == 0 {
		return nil, response.BadRequest("empty_order", nil)
	}

	if calculatedTotal != req.TotalPrice {
		return nil, response.BadRequest("total_price_mismatch", map[string]int64{
			"declared_total":   req.TotalPrice,
			"calculated_total": calculatedTotal,
		})
	}

	order := orders.Order{
		ID:         "ord_" + ksuid.New().String(),
		ClientID:   client.ID,
		Status:     req.Status,
		TotalPrice: calculatedTotal,
	}

	if err := u.orderRepo.CreateOrderWithItems(ctx, order, items); err != nil {
		return nil, response.InternalServerError(err)
	}

	// Best-effort: a queue outage must not fail an already committed order.
	if u.events != nil {
		event := queue.OrderPlacedEvent{
			OrderID:    order.ID,
			ClientID:   order.ClientID,
			TotalPrice: order.TotalPrice,
			PlacedAt:   time.Now().UTC(),
		}
		if err := u.events.PublishOrderPlaced(ctx, event); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID).Msg("Failed to publish order event")
		}
	}

	return &orders.OrderView{
		ID:         order.ID,
		ClientID:   order.ClientID,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		Products:   lines,
	}, nil
}

func (u *orderUsecase) GetOrder(ctx context.Context, id string) (*orders.OrderView, error) {
	order, err := u.orderRepo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if order == nil {
		return nil, response.NotFound("order_not_found")
	}
	return u.assembleView(ctx, order)
}

func (u *orderUsecase) ListOrders(ctx context.Context, filter orders.ListFilter) (*orders.OrderListWrapper, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	// An inclusive final date means "up to the end of that day".
	if filter.FinalDate != nil {
		endOfDay := filter.FinalDate.Truncate(24 * time.Hour).Add(24*time.Hour - time.Second)
		filter.FinalDate = &endOfDay
	}

	list, total, err := u.orderRepo.FindAllOrders(ctx, filter)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	views := make([]orders.OrderView, 0, len(list))
	for i := range list {
		view, err := u.assembleView(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return &orders.OrderListWrapper{
		Orders: views,
		Pagination: orders.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			PerPage:     filter.Limit,
		},
	}, nil
}

// UpdateOrder re-points the order to another client and/or changes its
// status. The total is left untouched so it stays consistent with the line
// items written at creation time.
func (u *orderUsecase) UpdateOrder(ctx context.Context, id string, req orders.UpdateOrderRequest) (*orders.OrderView, error) {
	order, err := u.orderRepo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if order == nil {
		return nil, response.NotFound("order_not_found")
	}

	client, err := u.clientRepo.FindClientByID(ctx, req.ClientID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if client == nil {
		return nil, response.NotFound("client_not_found")
	}

	order.ClientID = client.ID
	order.Status = req.Status

	if err := u.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, response.InternalServerError(err)
	}

	return u.assembleView(ctx, order)
}

func (u *orderUsecase) DeleteOrder(ctx context.Context, id string) error {
	order, err := u.orderRepo.FindOrderByID(ctx, id)
	if err != nil {
		return response.InternalServerError(err)
	}
	if order == nil {
		return response.NotFound("order_not_found")
	}
	if err := u.orderRepo.DeleteOrder(ctx, id); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func (u *orderUsecase) assembleView(ctx context.Context, order *orders.Order) (*orders.OrderView, error) {
	lines, err := u.orderRepo.FindOrderItems(ctx, order.ID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	return &orders.OrderView{
		ID:         order.ID,
		ClientID:   order.ClientID,
		CreatedAt:  order.CreatedAt.UTC().Format(time.RFC3339),
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		Products:   lines,
	}, nil
}

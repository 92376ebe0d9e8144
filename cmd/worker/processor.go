package main

import (
	"context"
	"fmt"
	"log"

	orderRepository "github.com/mfigueiredo/storefront-api/internal/domain/orders/repository"
	"github.com/mfigueiredo/storefront-api/internal/platform/queue"
)

// EventProcessor consumes order-placed events and dispatches the order
// confirmation for each one.
type EventProcessor struct {
	queueService queue.QueueService
	orderRepo    orderRepository.OrderRepository
}

func NewEventProcessor(queueService queue.QueueService, orderRepo orderRepository.OrderRepository) *EventProcessor {
	return &EventProcessor{
		queueService: queueService,
		orderRepo:    orderRepo,
	}
}

// Start begins processing events from the queue
func (p *EventProcessor) Start(ctx context.Context) error {
	log.Println("Event processor started, waiting for order events...")

	for {
		select {
		case <-ctx.Done():
			log.Println("Event processor stopped")
			return ctx.Err()
		default:
			// Consume event from queue (blocking call with timeout)
			event, err := p.queueService.ConsumeOrderPlaced(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("Error consuming event: %v", err)
				continue
			}

			if event == nil {
				// No event available (timeout), continue
				continue
			}

			log.Printf("Processing confirmation for order %s", event.OrderID)
			if err := p.processEvent(ctx, event); err != nil {
				log.Printf("Error processing order %s: %v", event.OrderID, err)
			}
		}
	}
}

// processEvent dispatches the confirmation for a single placed order. The
// order is re-read so a stale or replayed event cannot confirm a deleted
// order.
func (p *EventProcessor) processEvent(ctx context.Context, event *queue.OrderPlacedEvent) error {
	order, err := p.orderRepo.FindOrderByID(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		log.Printf("Order %s no longer exists, skipping confirmation", event.OrderID)
		return nil
	}

	items, err := p.orderRepo.FindOrderItems(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	log.Printf(
		"Order %s confirmed: client=%s items=%d total=%d placed_at=%s",
		order.ID, order.ClientID, len(items), order.TotalPrice, event.PlacedAt.Format("2006-01-02 15:04:05"),
	)
	return nil
}

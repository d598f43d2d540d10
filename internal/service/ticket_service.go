package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"resto-orders/internal/domain"
)

type TicketService struct {
	tickets   TicketRepository
	publisher EventPublisher
}

func NewTicketService(tickets TicketRepository, publisher EventPublisher) *TicketService {
	return &TicketService{tickets: tickets, publisher: publisher}
}

// RecordImpression appends one "this ticket was printed" record. Reprints of
// the same ticket type are expected and all retained.
func (s *TicketService) RecordImpression(ctx context.Context, orderID, userID int, ticketType domain.TicketType) (*domain.TicketImpression, error) {
	if !domain.AllowedTicketTypes[ticketType] {
		return nil, fmt.Errorf("%w: unknown ticket type %q", domain.ErrInvalidPayload, ticketType)
	}
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidPayload)
	}

	impression := &domain.TicketImpression{
		OrderID:    orderID,
		UserID:     userID,
		TicketType: ticketType,
	}
	if err := s.tickets.InsertTicketImpression(ctx, impression); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		err := s.publisher.PublishOrderEvent(ctx, domain.OrderEvent{
			Type:       domain.EventTicketPrinted,
			OrderID:    orderID,
			TicketType: ticketType,
			Timestamp:  time.Now(),
		})
		if err != nil {
			log.Printf("[tickets] failed to publish ticket_printed for order %d: %v", orderID, err)
		}
	}
	return impression, nil
}

func (s *TicketService) ListImpressions(ctx context.Context, orderID int) ([]domain.TicketImpression, error) {
	return s.tickets.ListTicketImpressions(ctx, orderID)
}

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"resto-orders/internal/domain"
)

type OrderService struct {
	counters  CounterRepository
	orders    OrderRepository
	publisher EventPublisher
	qr        QRGenerator
}

func NewOrderService(counters CounterRepository, orders OrderRepository, publisher EventPublisher, qr QRGenerator) *OrderService {
	return &OrderService{
		counters:  counters,
		orders:    orders,
		publisher: publisher,
		qr:        qr,
	}
}

// CreateOrder resolves today's counter, builds the aggregate and persists it
// as one unit. The daily number is assigned inside the repository transaction
// so a failed creation never burns a number.
func (s *OrderService) CreateOrder(ctx context.Context, input domain.CreateOrderInput) (*domain.Order, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	counter, err := s.counters.FindOrCreateCounter(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve counter: %w", err)
	}

	order := &domain.Order{
		UserID:          input.UserID,
		TableID:         input.TableID,
		OrderType:       input.OrderType,
		OrderStatus:     domain.OrderStatusPending,
		Notes:           input.Notes,
		CustomerName:    input.CustomerName,
		PhoneNumber:     input.PhoneNumber,
		DeliveryAddress: input.DeliveryAddress,
	}
	for _, in := range input.Items {
		item := domain.OrderItem{
			ProductID:         in.ProductID,
			ProductVariantID:  in.ProductVariantID,
			Quantity:          in.Quantity,
			BasePrice:         in.BasePrice,
			FinalPrice:        in.FinalPrice,
			PreparationStatus: domain.PreparationPending,
			PreparationNotes:  in.PreparationNotes,
		}
		for _, m := range in.Modifiers {
			quantity := m.Quantity
			if quantity == 0 {
				quantity = 1
			}
			item.Modifiers = append(item.Modifiers, domain.OrderItemModifier{
				ModifierID:       m.ModifierID,
				ModifierOptionID: m.ModifierOptionID,
				Quantity:         quantity,
				Price:            m.Price,
			})
		}
		order.Subtotal += float64(item.Quantity) * item.BasePrice
		order.Total += float64(item.Quantity) * item.FinalPrice
		order.Items = append(order.Items, item)
	}

	if err := s.orders.CreateOrder(ctx, counter.ID, order); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.OrderEvent{
		Type:        domain.EventOrderCreated,
		OrderID:     order.ID,
		DailyNumber: order.DailyNumber,
		OrderStatus: order.OrderStatus,
		Timestamp:   time.Now(),
	})
	return order, nil
}

func validateCreateOrder(input domain.CreateOrderInput) error {
	if input.UserID <= 0 {
		return fmt.Errorf("%w: user_id is required", domain.ErrInvalidPayload)
	}
	if !domain.AllowedOrderTypes[input.OrderType] {
		return fmt.Errorf("%w: unknown order type %q", domain.ErrInvalidPayload, input.OrderType)
	}
	if len(input.Items) == 0 {
		return fmt.Errorf("%w: order needs at least one item", domain.ErrInvalidPayload)
	}
	for i, item := range input.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: item %d: product_id is required", domain.ErrInvalidPayload, i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be positive", domain.ErrInvalidPayload, i+1)
		}
		if item.BasePrice < 0 || item.FinalPrice < 0 {
			return fmt.Errorf("%w: item %d: prices must not be negative", domain.ErrInvalidPayload, i+1)
		}
		for j, mod := range item.Modifiers {
			if mod.ModifierID <= 0 {
				return fmt.Errorf("%w: item %d modifier %d: modifier_id is required", domain.ErrInvalidPayload, i+1, j+1)
			}
			if mod.Price < 0 {
				return fmt.Errorf("%w: item %d modifier %d: price must not be negative", domain.ErrInvalidPayload, i+1, j+1)
			}
		}
	}
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, day time.Time) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx, day)
}

func (s *OrderService) UpdateOrder(ctx context.Context, id int, input domain.UpdateOrderInput) (*domain.Order, error) {
	order, err := s.orders.UpdateOrder(ctx, id, input)
	if err != nil {
		return nil, err
	}

	if input.OrderStatus != nil {
		s.publish(ctx, domain.OrderEvent{
			Type:        domain.EventOrderStatusChanged,
			OrderID:     order.ID,
			DailyNumber: order.DailyNumber,
			OrderStatus: order.OrderStatus,
			Timestamp:   time.Now(),
		})
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	return s.orders.SoftDeleteOrder(ctx, id)
}

func (s *OrderService) OpenOrderForTable(ctx context.Context, tableID int) (*domain.Order, error) {
	return s.orders.FindOpenOrderByTable(ctx, tableID)
}

// OrderQRCode returns the customer-copy QR code, generating and caching it
// on first use.
func (s *OrderService) OrderQRCode(ctx context.Context, id int) ([]byte, error) {
	code, err := s.orders.GetOrderQRCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(code) > 0 {
		return code, nil
	}

	code, err = s.qr.Generate(fmt.Sprintf("resto-orders://orders/%d", id))
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	if err := s.orders.SaveOrderQRCode(ctx, id, code); err != nil {
		log.Printf("[orders] failed to cache qr code for order %d: %v", id, err)
	}
	return code, nil
}

func (s *OrderService) AddItem(ctx context.Context, orderID int, input domain.CreateOrderItemInput) (*domain.OrderItem, error) {
	if input.ProductID <= 0 || input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: product_id and a positive quantity are required", domain.ErrInvalidPayload)
	}
	if input.BasePrice < 0 || input.FinalPrice < 0 {
		return nil, fmt.Errorf("%w: prices must not be negative", domain.ErrInvalidPayload)
	}

	item := &domain.OrderItem{
		ProductID:         input.ProductID,
		ProductVariantID:  input.ProductVariantID,
		Quantity:          input.Quantity,
		BasePrice:         input.BasePrice,
		FinalPrice:        input.FinalPrice,
		PreparationStatus: domain.PreparationPending,
		PreparationNotes:  input.PreparationNotes,
	}
	for _, m := range input.Modifiers {
		quantity := m.Quantity
		if quantity == 0 {
			quantity = 1
		}
		item.Modifiers = append(item.Modifiers, domain.OrderItemModifier{
			ModifierID:       m.ModifierID,
			ModifierOptionID: m.ModifierOptionID,
			Quantity:         quantity,
			Price:            m.Price,
		})
	}

	if err := s.orders.AddItem(ctx, orderID, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *OrderService) UpdateItem(ctx context.Context, itemID int, input domain.UpdateOrderItemInput) (*domain.OrderItem, error) {
	return s.orders.UpdateItem(ctx, itemID, input)
}

func (s *OrderService) DeleteItem(ctx context.Context, itemID int) error {
	return s.orders.DeleteItem(ctx, itemID)
}

// publish is best-effort; the mutation already committed and a broker outage
// must not fail the request.
func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("[orders] failed to publish %s for order %d: %v", event.Type, event.OrderID, err)
	}
}

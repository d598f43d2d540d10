package service

import (
	"context"
	"time"

	"resto-orders/internal/domain"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, input domain.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	ListOrders(ctx context.Context, day time.Time) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, id int, input domain.UpdateOrderInput) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int) error
	OpenOrderForTable(ctx context.Context, tableID int) (*domain.Order, error)
	OrderQRCode(ctx context.Context, id int) ([]byte, error)
	AddItem(ctx context.Context, orderID int, input domain.CreateOrderItemInput) (*domain.OrderItem, error)
	UpdateItem(ctx context.Context, itemID int, input domain.UpdateOrderItemInput) (*domain.OrderItem, error)
	DeleteItem(ctx context.Context, itemID int) error
}

type HistoryServiceInterface interface {
	OrderHistory(ctx context.Context, orderID, page, limit int) ([]domain.OrderHistory, int, error)
}

type TicketServiceInterface interface {
	RecordImpression(ctx context.Context, orderID, userID int, ticketType domain.TicketType) (*domain.TicketImpression, error)
	ListImpressions(ctx context.Context, orderID int) ([]domain.TicketImpression, error)
}

type CounterRepository interface {
	FindOrCreateCounter(ctx context.Context, date time.Time) (*domain.DailyCounter, error)
	IncrementCounter(ctx context.Context, counterID int) (int, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, counterID int, order *domain.Order) error
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	ListOrders(ctx context.Context, day time.Time) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, id int, input domain.UpdateOrderInput) (*domain.Order, error)
	SoftDeleteOrder(ctx context.Context, id int) error
	FindOpenOrderByTable(ctx context.Context, tableID int) (*domain.Order, error)
	GetOrderQRCode(ctx context.Context, id int) ([]byte, error)
	SaveOrderQRCode(ctx context.Context, id int, code []byte) error
	AddItem(ctx context.Context, orderID int, item *domain.OrderItem) error
	UpdateItem(ctx context.Context, itemID int, input domain.UpdateOrderItemInput) (*domain.OrderItem, error)
	DeleteItem(ctx context.Context, itemID int) error
}

type HistoryRepository interface {
	OrderHistoryByOrder(ctx context.Context, orderID, limit, offset int) ([]domain.OrderHistory, int, error)
}

type TicketRepository interface {
	InsertTicketImpression(ctx context.Context, impression *domain.TicketImpression) error
	ListTicketImpressions(ctx context.Context, orderID int) ([]domain.TicketImpression, error)
}

type UserDirectory interface {
	GetUsersByIDs(ctx context.Context, ids []int) (map[int]domain.UserProjection, error)
}

type UserCache interface {
	GetUser(ctx context.Context, id int) (*domain.UserProjection, error)
	SetUser(ctx context.Context, user domain.UserProjection) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(content string) ([]byte, error)
}

var (
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ HistoryServiceInterface = (*HistoryService)(nil)
	_ TicketServiceInterface  = (*TicketService)(nil)
)

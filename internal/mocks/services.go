package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"resto-orders/internal/domain"
)

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t constructorTestingT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderServiceInterface) CreateOrder(ctx context.Context, input domain.CreateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, input)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderServiceInterface) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderServiceInterface) ListOrders(ctx context.Context, day time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, day)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderServiceInterface) UpdateOrder(ctx context.Context, id int, input domain.UpdateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, id, input)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderServiceInterface) DeleteOrder(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *OrderServiceInterface) OpenOrderForTable(ctx context.Context, tableID int) (*domain.Order, error) {
	args := m.Called(ctx, tableID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderServiceInterface) OrderQRCode(ctx context.Context, id int) ([]byte, error) {
	args := m.Called(ctx, id)
	var code []byte
	if args.Get(0) != nil {
		code = args.Get(0).([]byte)
	}
	return code, args.Error(1)
}

func (m *OrderServiceInterface) AddItem(ctx context.Context, orderID int, input domain.CreateOrderItemInput) (*domain.OrderItem, error) {
	args := m.Called(ctx, orderID, input)
	var item *domain.OrderItem
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.OrderItem)
	}
	return item, args.Error(1)
}

func (m *OrderServiceInterface) UpdateItem(ctx context.Context, itemID int, input domain.UpdateOrderItemInput) (*domain.OrderItem, error) {
	args := m.Called(ctx, itemID, input)
	var item *domain.OrderItem
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.OrderItem)
	}
	return item, args.Error(1)
}

func (m *OrderServiceInterface) DeleteItem(ctx context.Context, itemID int) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

type HistoryServiceInterface struct {
	mock.Mock
}

func NewHistoryServiceInterface(t constructorTestingT) *HistoryServiceInterface {
	m := &HistoryServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *HistoryServiceInterface) OrderHistory(ctx context.Context, orderID, page, limit int) ([]domain.OrderHistory, int, error) {
	args := m.Called(ctx, orderID, page, limit)
	var rows []domain.OrderHistory
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.OrderHistory)
	}
	return rows, args.Int(1), args.Error(2)
}

type TicketServiceInterface struct {
	mock.Mock
}

func NewTicketServiceInterface(t constructorTestingT) *TicketServiceInterface {
	m := &TicketServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TicketServiceInterface) RecordImpression(ctx context.Context, orderID, userID int, ticketType domain.TicketType) (*domain.TicketImpression, error) {
	args := m.Called(ctx, orderID, userID, ticketType)
	var impression *domain.TicketImpression
	if args.Get(0) != nil {
		impression = args.Get(0).(*domain.TicketImpression)
	}
	return impression, args.Error(1)
}

func (m *TicketServiceInterface) ListImpressions(ctx context.Context, orderID int) ([]domain.TicketImpression, error) {
	args := m.Called(ctx, orderID)
	var impressions []domain.TicketImpression
	if args.Get(0) != nil {
		impressions = args.Get(0).([]domain.TicketImpression)
	}
	return impressions, args.Error(1)
}

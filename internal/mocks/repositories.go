// Package mocks holds testify mocks for the service-layer interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"resto-orders/internal/domain"
)

type constructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

type CounterRepository struct {
	mock.Mock
}

func NewCounterRepository(t constructorTestingT) *CounterRepository {
	m := &CounterRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CounterRepository) FindOrCreateCounter(ctx context.Context, date time.Time) (*domain.DailyCounter, error) {
	args := m.Called(ctx, date)
	var counter *domain.DailyCounter
	if args.Get(0) != nil {
		counter = args.Get(0).(*domain.DailyCounter)
	}
	return counter, args.Error(1)
}

func (m *CounterRepository) IncrementCounter(ctx context.Context, counterID int) (int, error) {
	args := m.Called(ctx, counterID)
	return args.Int(0), args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t constructorTestingT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, counterID int, order *domain.Order) error {
	args := m.Called(ctx, counterID, order)
	return args.Error(0)
}

func (m *OrderRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderRepository) ListOrders(ctx context.Context, day time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, day)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderRepository) UpdateOrder(ctx context.Context, id int, input domain.UpdateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, id, input)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderRepository) SoftDeleteOrder(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *OrderRepository) FindOpenOrderByTable(ctx context.Context, tableID int) (*domain.Order, error) {
	args := m.Called(ctx, tableID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderRepository) GetOrderQRCode(ctx context.Context, id int) ([]byte, error) {
	args := m.Called(ctx, id)
	var code []byte
	if args.Get(0) != nil {
		code = args.Get(0).([]byte)
	}
	return code, args.Error(1)
}

func (m *OrderRepository) SaveOrderQRCode(ctx context.Context, id int, code []byte) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *OrderRepository) AddItem(ctx context.Context, orderID int, item *domain.OrderItem) error {
	args := m.Called(ctx, orderID, item)
	return args.Error(0)
}

func (m *OrderRepository) UpdateItem(ctx context.Context, itemID int, input domain.UpdateOrderItemInput) (*domain.OrderItem, error) {
	args := m.Called(ctx, itemID, input)
	var item *domain.OrderItem
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.OrderItem)
	}
	return item, args.Error(1)
}

func (m *OrderRepository) DeleteItem(ctx context.Context, itemID int) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

type HistoryRepository struct {
	mock.Mock
}

func NewHistoryRepository(t constructorTestingT) *HistoryRepository {
	m := &HistoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *HistoryRepository) OrderHistoryByOrder(ctx context.Context, orderID, limit, offset int) ([]domain.OrderHistory, int, error) {
	args := m.Called(ctx, orderID, limit, offset)
	var rows []domain.OrderHistory
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.OrderHistory)
	}
	return rows, args.Int(1), args.Error(2)
}

type TicketRepository struct {
	mock.Mock
}

func NewTicketRepository(t constructorTestingT) *TicketRepository {
	m := &TicketRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TicketRepository) InsertTicketImpression(ctx context.Context, impression *domain.TicketImpression) error {
	args := m.Called(ctx, impression)
	return args.Error(0)
}

func (m *TicketRepository) ListTicketImpressions(ctx context.Context, orderID int) ([]domain.TicketImpression, error) {
	args := m.Called(ctx, orderID)
	var impressions []domain.TicketImpression
	if args.Get(0) != nil {
		impressions = args.Get(0).([]domain.TicketImpression)
	}
	return impressions, args.Error(1)
}

type UserDirectory struct {
	mock.Mock
}

func NewUserDirectory(t constructorTestingT) *UserDirectory {
	m := &UserDirectory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserDirectory) GetUsersByIDs(ctx context.Context, ids []int) (map[int]domain.UserProjection, error) {
	args := m.Called(ctx, ids)
	var users map[int]domain.UserProjection
	if args.Get(0) != nil {
		users = args.Get(0).(map[int]domain.UserProjection)
	}
	return users, args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resto-orders/internal/domain"
)

type UserCache struct {
	mock.Mock
}

func NewUserCache(t constructorTestingT) *UserCache {
	m := &UserCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserCache) GetUser(ctx context.Context, id int) (*domain.UserProjection, error) {
	args := m.Called(ctx, id)
	var user *domain.UserProjection
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.UserProjection)
	}
	return user, args.Error(1)
}

func (m *UserCache) SetUser(ctx context.Context, user domain.UserProjection) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t constructorTestingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t constructorTestingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *QRGenerator) Generate(content string) ([]byte, error) {
	args := m.Called(content)
	var code []byte
	if args.Get(0) != nil {
		code = args.Get(0).([]byte)
	}
	return code, args.Error(1)
}

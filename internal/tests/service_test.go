package tests

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"resto-orders/internal/domain"
	"resto-orders/internal/mocks"
	"resto-orders/internal/service"
)

func createInputFixture() domain.CreateOrderInput {
	return domain.CreateOrderInput{
		UserID:    3,
		OrderType: domain.OrderTypeDineIn,
		Items: []domain.CreateOrderItemInput{
			{
				ProductID: 11, Quantity: 1, BasePrice: 10, FinalPrice: 11.5,
				Modifiers: []domain.CreateOrderItemModifierInput{
					{ModifierID: 5, Price: 1.5},
				},
			},
			{ProductID: 12, Quantity: 2, BasePrice: 5, FinalPrice: 5},
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		counters := mocks.NewCounterRepository(t)
		orders := mocks.NewOrderRepository(t)
		publisher := mocks.NewEventPublisher(t)
		svc := service.NewOrderService(counters, orders, publisher, service.DefaultQRGenerator{})

		counters.On("FindOrCreateCounter", ctx, mock.Anything).
			Return(&domain.DailyCounter{ID: 2, CurrentNumber: 41}, nil).Once()
		orders.On("CreateOrder", ctx, 2, mock.Anything).
			Run(func(args mock.Arguments) {
				order := args.Get(2).(*domain.Order)
				order.ID = 7
				order.DailyCounterID = 2
				order.DailyNumber = 42
			}).
			Return(nil).Once()
		publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
			return e.Type == domain.EventOrderCreated && e.OrderID == 7 && e.DailyNumber == 42
		})).Return(nil).Once()

		order, err := svc.CreateOrder(ctx, createInputFixture())
		assert.NoError(t, err)
		assert.Equal(t, 42, order.DailyNumber)
		assert.Equal(t, domain.OrderStatusPending, order.OrderStatus)
		assert.Equal(t, 20.0, order.Subtotal)
		assert.Equal(t, 21.5, order.Total)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, domain.PreparationPending, order.Items[0].PreparationStatus)
		// Modifier quantity defaults to 1 when omitted.
		assert.Equal(t, 1, order.Items[0].Modifiers[0].Quantity)
	})

	t.Run("publish_failure_does_not_fail_request", func(t *testing.T) {
		counters := mocks.NewCounterRepository(t)
		orders := mocks.NewOrderRepository(t)
		publisher := mocks.NewEventPublisher(t)
		svc := service.NewOrderService(counters, orders, publisher, service.DefaultQRGenerator{})

		counters.On("FindOrCreateCounter", ctx, mock.Anything).
			Return(&domain.DailyCounter{ID: 2}, nil).Once()
		orders.On("CreateOrder", ctx, 2, mock.Anything).Return(nil).Once()
		publisher.On("PublishOrderEvent", ctx, mock.Anything).
			Return(errors.New("broker down")).Once()

		_, err := svc.CreateOrder(ctx, createInputFixture())
		assert.NoError(t, err)
	})

	t.Run("counter_failure_aborts", func(t *testing.T) {
		counters := mocks.NewCounterRepository(t)
		orders := mocks.NewOrderRepository(t)
		svc := service.NewOrderService(counters, orders, nil, service.DefaultQRGenerator{})

		counters.On("FindOrCreateCounter", ctx, mock.Anything).
			Return(nil, errors.New("db down")).Once()

		_, err := svc.CreateOrder(ctx, createInputFixture())
		assert.Error(t, err)
	})

	t.Run("duplicate_daily_number_surfaces", func(t *testing.T) {
		counters := mocks.NewCounterRepository(t)
		orders := mocks.NewOrderRepository(t)
		svc := service.NewOrderService(counters, orders, nil, service.DefaultQRGenerator{})

		counters.On("FindOrCreateCounter", ctx, mock.Anything).
			Return(&domain.DailyCounter{ID: 2}, nil).Once()
		orders.On("CreateOrder", ctx, 2, mock.Anything).
			Return(domain.ErrDuplicateDailyNumber).Once()

		_, err := svc.CreateOrder(ctx, createInputFixture())
		assert.ErrorIs(t, err, domain.ErrDuplicateDailyNumber)
	})

	t.Run("validation", func(t *testing.T) {
		svc := service.NewOrderService(mocks.NewCounterRepository(t), mocks.NewOrderRepository(t), nil, service.DefaultQRGenerator{})

		tests := []struct {
			name   string
			mutate func(*domain.CreateOrderInput)
		}{
			{"missing_user", func(in *domain.CreateOrderInput) { in.UserID = 0 }},
			{"unknown_order_type", func(in *domain.CreateOrderInput) { in.OrderType = "ROOM_SERVICE" }},
			{"no_items", func(in *domain.CreateOrderInput) { in.Items = nil }},
			{"zero_quantity", func(in *domain.CreateOrderInput) { in.Items[0].Quantity = 0 }},
			{"negative_price", func(in *domain.CreateOrderInput) { in.Items[0].BasePrice = -1 }},
		}
		for _, testCase := range tests {
			t.Run(testCase.name, func(t *testing.T) {
				input := createInputFixture()
				testCase.mutate(&input)
				_, err := svc.CreateOrder(context.Background(), input)
				assert.ErrorIs(t, err, domain.ErrInvalidPayload)
			})
		}
	})
}

func TestOrderService_UpdateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("status_change_publishes_event", func(t *testing.T) {
		orders := mocks.NewOrderRepository(t)
		publisher := mocks.NewEventPublisher(t)
		svc := service.NewOrderService(mocks.NewCounterRepository(t), orders, publisher, service.DefaultQRGenerator{})

		status := domain.OrderStatusInProgress
		input := domain.UpdateOrderInput{OrderStatus: &status}
		orders.On("UpdateOrder", ctx, 7, input).
			Return(&domain.Order{ID: 7, DailyNumber: 42, OrderStatus: status}, nil).Once()
		publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
			return e.Type == domain.EventOrderStatusChanged && e.OrderStatus == domain.OrderStatusInProgress
		})).Return(nil).Once()

		order, err := svc.UpdateOrder(ctx, 7, input)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusInProgress, order.OrderStatus)
	})

	t.Run("scalar_patch_does_not_publish", func(t *testing.T) {
		orders := mocks.NewOrderRepository(t)
		publisher := mocks.NewEventPublisher(t)
		svc := service.NewOrderService(mocks.NewCounterRepository(t), orders, publisher, service.DefaultQRGenerator{})

		notes := "no onions"
		input := domain.UpdateOrderInput{Notes: &notes}
		orders.On("UpdateOrder", ctx, 7, input).
			Return(&domain.Order{ID: 7, Notes: notes}, nil).Once()

		_, err := svc.UpdateOrder(ctx, 7, input)
		assert.NoError(t, err)
	})

	t.Run("invalid_transition_propagates", func(t *testing.T) {
		orders := mocks.NewOrderRepository(t)
		svc := service.NewOrderService(mocks.NewCounterRepository(t), orders, nil, service.DefaultQRGenerator{})

		status := domain.OrderStatusPending
		input := domain.UpdateOrderInput{OrderStatus: &status}
		orders.On("UpdateOrder", ctx, 7, input).
			Return(nil, domain.ErrInvalidTransition).Once()

		_, err := svc.UpdateOrder(ctx, 7, input)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestOrderService_OrderQRCode(t *testing.T) {
	ctx := context.Background()

	t.Run("cached_code_returned", func(t *testing.T) {
		orders := mocks.NewOrderRepository(t)
		svc := service.NewOrderService(mocks.NewCounterRepository(t), orders, nil, service.DefaultQRGenerator{})

		orders.On("GetOrderQRCode", ctx, 7).Return([]byte("png"), nil).Once()

		code, err := svc.OrderQRCode(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, []byte("png"), code)
	})

	t.Run("generated_and_saved_on_first_use", func(t *testing.T) {
		orders := mocks.NewOrderRepository(t)
		qr := mocks.NewQRGenerator(t)
		svc := service.NewOrderService(mocks.NewCounterRepository(t), orders, nil, qr)

		orders.On("GetOrderQRCode", ctx, 7).Return([]byte{}, nil).Once()
		qr.On("Generate", mock.Anything).Return([]byte("fresh"), nil).Once()
		orders.On("SaveOrderQRCode", ctx, 7, []byte("fresh")).Return(nil).Once()

		code, err := svc.OrderQRCode(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, []byte("fresh"), code)
	})
}

func TestHistoryService_OrderHistory(t *testing.T) {
	ctx := context.Background()

	historyRows := []domain.OrderHistory{
		{ID: 2, OrderID: 7, Operation: domain.OperationUpdate, ChangedBy: 3,
			Diff: json.RawMessage(`{"order_status":{"before":"PENDING","after":"IN_PROGRESS"}}`),
			Snapshot: json.RawMessage(`{}`)},
		{ID: 1, OrderID: 7, Operation: domain.OperationInsert, ChangedBy: 3,
			Snapshot: json.RawMessage(`{}`)},
	}

	t.Run("enriches_from_directory_and_caches", func(t *testing.T) {
		history := mocks.NewHistoryRepository(t)
		users := mocks.NewUserDirectory(t)
		cache := mocks.NewUserCache(t)
		svc := service.NewHistoryService(history, users, cache)

		history.On("OrderHistoryByOrder", ctx, 7, 20, 0).Return(historyRows, 2, nil).Once()
		cache.On("GetUser", ctx, 3).Return(nil, errors.New("cache miss")).Once()
		users.On("GetUsersByIDs", ctx, []int{3}).
			Return(map[int]domain.UserProjection{3: {ID: 3, FirstName: "Ana", Username: "ana"}}, nil).Once()
		cache.On("SetUser", ctx, domain.UserProjection{ID: 3, FirstName: "Ana", Username: "ana"}).Return(nil).Once()

		rows, total, err := svc.OrderHistory(ctx, 7, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, "ana", rows[0].ChangedByUser.Username)
		assert.Equal(t, "ana", rows[1].ChangedByUser.Username)
	})

	t.Run("directory_failure_degrades_to_null_user", func(t *testing.T) {
		history := mocks.NewHistoryRepository(t)
		users := mocks.NewUserDirectory(t)
		cache := mocks.NewUserCache(t)
		svc := service.NewHistoryService(history, users, cache)

		history.On("OrderHistoryByOrder", ctx, 7, 20, 0).Return(historyRows, 2, nil).Once()
		cache.On("GetUser", ctx, 3).Return(nil, errors.New("cache miss")).Once()
		users.On("GetUsersByIDs", ctx, []int{3}).
			Return(nil, errors.New("users table unavailable")).Once()

		rows, total, err := svc.OrderHistory(ctx, 7, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Nil(t, rows[0].ChangedByUser)
	})

	t.Run("cache_hit_skips_directory", func(t *testing.T) {
		history := mocks.NewHistoryRepository(t)
		users := mocks.NewUserDirectory(t)
		cache := mocks.NewUserCache(t)
		svc := service.NewHistoryService(history, users, cache)

		history.On("OrderHistoryByOrder", ctx, 7, 20, 0).Return(historyRows, 2, nil).Once()
		cache.On("GetUser", ctx, 3).
			Return(&domain.UserProjection{ID: 3, Username: "ana"}, nil).Once()

		rows, _, err := svc.OrderHistory(ctx, 7, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, "ana", rows[0].ChangedByUser.Username)
	})

	t.Run("page_defaults", func(t *testing.T) {
		history := mocks.NewHistoryRepository(t)
		users := mocks.NewUserDirectory(t)
		cache := mocks.NewUserCache(t)
		svc := service.NewHistoryService(history, users, cache)

		history.On("OrderHistoryByOrder", ctx, 7, 20, 0).Return(nil, 0, nil).Once()

		_, total, err := svc.OrderHistory(ctx, 7, 0, -5)
		assert.NoError(t, err)
		assert.Equal(t, 0, total)
	})
}

func TestTicketService_RecordImpression(t *testing.T) {
	ctx := context.Background()

	t.Run("success_publishes_event", func(t *testing.T) {
		tickets := mocks.NewTicketRepository(t)
		publisher := mocks.NewEventPublisher(t)
		svc := service.NewTicketService(tickets, publisher)

		tickets.On("InsertTicketImpression", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				impression := args.Get(1).(*domain.TicketImpression)
				impression.ID = 1
				impression.ImpressionTime = time.Now()
			}).
			Return(nil).Once()
		publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
			return e.Type == domain.EventTicketPrinted && e.TicketType == domain.TicketTypeKitchen
		})).Return(nil).Once()

		impression, err := svc.RecordImpression(ctx, 7, 3, domain.TicketTypeKitchen)
		assert.NoError(t, err)
		assert.Equal(t, 1, impression.ID)
	})

	t.Run("reprint_is_not_an_error", func(t *testing.T) {
		tickets := mocks.NewTicketRepository(t)
		svc := service.NewTicketService(tickets, nil)

		tickets.On("InsertTicketImpression", ctx, mock.Anything).Return(nil).Twice()

		_, err := svc.RecordImpression(ctx, 7, 3, domain.TicketTypeKitchen)
		assert.NoError(t, err)
		_, err = svc.RecordImpression(ctx, 7, 3, domain.TicketTypeKitchen)
		assert.NoError(t, err)
	})

	t.Run("unknown_ticket_type_rejected", func(t *testing.T) {
		svc := service.NewTicketService(mocks.NewTicketRepository(t), nil)

		_, err := svc.RecordImpression(ctx, 7, 3, "NAPKIN")
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	})

	t.Run("missing_order_propagates", func(t *testing.T) {
		tickets := mocks.NewTicketRepository(t)
		svc := service.NewTicketService(tickets, nil)

		tickets.On("InsertTicketImpression", ctx, mock.Anything).
			Return(domain.ErrOrderNotFound).Once()

		_, err := svc.RecordImpression(ctx, 999, 3, domain.TicketTypeBar)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "resto-orders/internal/api/http"
	"resto-orders/internal/domain"
	"resto-orders/internal/mocks"
)

type handlerFixture struct {
	orders  *mocks.OrderServiceInterface
	history *mocks.HistoryServiceInterface
	tickets *mocks.TicketServiceInterface
	router  *mux.Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	f := &handlerFixture{
		orders:  mocks.NewOrderServiceInterface(t),
		history: mocks.NewHistoryServiceInterface(t),
		tickets: mocks.NewTicketServiceInterface(t),
		router:  mux.NewRouter(),
	}
	httpapi.NewHandler(f.orders, f.history, f.tickets).RegisterRoutes(f.router)
	return f
}

func (f *handlerFixture) do(method, target string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestCreateOrderHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).
			Return(&domain.Order{ID: 7, DailyNumber: 42, OrderStatus: domain.OrderStatusPending}, nil).Once()

		rec := f.do(http.MethodPost, "/api/orders",
			`{"user_id":3,"order_type":"DINE_IN","items":[{"product_id":11,"quantity":2,"base_price":10,"final_price":10.75}]}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var order domain.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
		assert.Equal(t, 42, order.DailyNumber)
	})

	t.Run("malformed_json", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(http.MethodPost, "/api/orders", `{"user_id":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid_payload", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).
			Return(nil, domain.ErrInvalidPayload).Once()

		rec := f.do(http.MethodPost, "/api/orders", `{"user_id":3,"order_type":"DINE_IN"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("GetOrder", mock.Anything, 7).
			Return(&domain.Order{ID: 7, DailyNumber: 42}, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders/7", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not_found", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("GetOrder", mock.Anything, 999).
			Return(nil, domain.ErrOrderNotFound).Once()

		rec := f.do(http.MethodGet, "/api/orders/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateOrderHandler(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"invalid_transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"order_closed", domain.ErrOrderClosed, http.StatusConflict},
		{"not_found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"storage_failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			var order *domain.Order
			if testCase.serviceErr == nil {
				order = &domain.Order{ID: 7, OrderStatus: domain.OrderStatusInProgress}
			}
			f.orders.On("UpdateOrder", mock.Anything, 7, mock.Anything).
				Return(order, testCase.serviceErr).Once()

			rec := f.do(http.MethodPatch, "/api/orders/7", `{"order_status":"IN_PROGRESS"}`)
			assert.Equal(t, testCase.wantStatus, rec.Code)
		})
	}
}

func TestDeleteOrderHandler(t *testing.T) {
	f := newHandlerFixture(t)
	f.orders.On("DeleteOrder", mock.Anything, 7).Return(nil).Once()

	rec := f.do(http.MethodDelete, "/api/orders/7", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListOrdersHandler(t *testing.T) {
	t.Run("by_date", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("ListOrders", mock.Anything, mock.Anything).
			Return([]domain.Order{{ID: 7}, {ID: 6}}, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders?date=2025-06-01", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad_date", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(http.MethodGet, "/api/orders?date=junk", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHistoryHandler(t *testing.T) {
	t.Run("rows_and_total", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.history.On("OrderHistory", mock.Anything, 7, 2, 10).
			Return([]domain.OrderHistory{{ID: 5, OrderID: 7, Operation: domain.OperationUpdate}}, 13, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders/7/history?page=2&limit=10", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Rows  []domain.OrderHistory `json:"rows"`
			Total int                   `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, 13, payload.Total)
		assert.Len(t, payload.Rows, 1)
	})

	t.Run("empty_page_is_empty_array", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.history.On("OrderHistory", mock.Anything, 7, 0, 0).
			Return(nil, 0, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders/7/history", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"rows":[]`)
	})
}

func TestItemHandlers(t *testing.T) {
	t.Run("add_item_created", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("AddItem", mock.Anything, 7, mock.Anything).
			Return(&domain.OrderItem{ID: 9, OrderID: 7, PreparationStatus: domain.PreparationPending}, nil).Once()

		rec := f.do(http.MethodPost, "/api/orders/7/items",
			`{"product_id":11,"quantity":1,"base_price":10,"final_price":10}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("add_item_to_closed_order", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("AddItem", mock.Anything, 7, mock.Anything).
			Return(nil, domain.ErrOrderClosed).Once()

		rec := f.do(http.MethodPost, "/api/orders/7/items",
			`{"product_id":11,"quantity":1,"base_price":10,"final_price":10}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("update_item_invalid_transition", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("UpdateItem", mock.Anything, 9, mock.Anything).
			Return(nil, domain.ErrInvalidTransition).Once()

		rec := f.do(http.MethodPatch, "/api/orders/items/9", `{"preparation_status":"PENDING"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("delete_item", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("DeleteItem", mock.Anything, 9).Return(nil).Once()

		rec := f.do(http.MethodDelete, "/api/orders/items/9", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestTicketImpressionHandlers(t *testing.T) {
	t.Run("record", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tickets.On("RecordImpression", mock.Anything, 7, 3, domain.TicketTypeKitchen).
			Return(&domain.TicketImpression{ID: 1, OrderID: 7, UserID: 3, TicketType: domain.TicketTypeKitchen}, nil).Once()

		rec := f.do(http.MethodPost, "/api/orders/7/ticket-impressions",
			`{"user_id":3,"ticket_type":"KITCHEN"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("record_for_missing_order", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tickets.On("RecordImpression", mock.Anything, 999, 3, domain.TicketTypeKitchen).
			Return(nil, domain.ErrOrderNotFound).Once()

		rec := f.do(http.MethodPost, "/api/orders/999/ticket-impressions",
			`{"user_id":3,"ticket_type":"KITCHEN"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tickets.On("ListImpressions", mock.Anything, 7).
			Return([]domain.TicketImpression{{ID: 2}, {ID: 1}}, nil).Once()

		rec := f.do(http.MethodGet, "/api/orders/7/ticket-impressions", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOpenOrderForTableHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("OpenOrderForTable", mock.Anything, 4).
			Return(&domain.Order{ID: 7, DailyNumber: 42}, nil).Once()

		rec := f.do(http.MethodGet, "/api/tables/4/open-order", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("none_open", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.orders.On("OpenOrderForTable", mock.Anything, 4).
			Return(nil, domain.ErrOrderNotFound).Once()

		rec := f.do(http.MethodGet, "/api/tables/4/open-order", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestQRCodeHandler(t *testing.T) {
	f := newHandlerFixture(t)
	f.orders.On("OrderQRCode", mock.Anything, 7).Return([]byte("png-bytes"), nil).Once()

	rec := f.do(http.MethodGet, "/api/orders/7/qrcode", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "png-bytes"))
}

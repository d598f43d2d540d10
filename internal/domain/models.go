package domain

import (
	"encoding/json"
	"time"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeTakeOut  OrderType = "TAKE_OUT"
	OrderTypeDelivery OrderType = "DELIVERY"
)

var AllowedOrderTypes = map[OrderType]bool{
	OrderTypeDineIn:   true,
	OrderTypeTakeOut:  true,
	OrderTypeDelivery: true,
}

type TicketType string

const (
	TicketTypeKitchen      TicketType = "KITCHEN"
	TicketTypeBar          TicketType = "BAR"
	TicketTypeBilling      TicketType = "BILLING"
	TicketTypeCustomerCopy TicketType = "CUSTOMER_COPY"
	TicketTypeGeneral      TicketType = "GENERAL"
)

var AllowedTicketTypes = map[TicketType]bool{
	TicketTypeKitchen:      true,
	TicketTypeBar:          true,
	TicketTypeBilling:      true,
	TicketTypeCustomerCopy: true,
	TicketTypeGeneral:      true,
}

type Operation string

const (
	OperationInsert Operation = "INSERT"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

// DailyCounter hands out the per-day sequential order numbers. One row per
// calendar day, created lazily by the first order of that day.
type DailyCounter struct {
	ID            int       `json:"id"`
	Date          time.Time `json:"date"`
	CurrentNumber int       `json:"current_number"`
}

type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id"`
	TableID         *int        `json:"table_id,omitempty"`
	DailyNumber     int         `json:"daily_number"`
	DailyCounterID  int         `json:"daily_counter_id"`
	OrderType       OrderType   `json:"order_type"`
	OrderStatus     OrderStatus `json:"order_status"`
	Subtotal        float64     `json:"subtotal"`
	Total           float64     `json:"total"`
	Notes           string      `json:"notes,omitempty"`
	CustomerName    string      `json:"customer_name,omitempty"`
	PhoneNumber     string      `json:"phone_number,omitempty"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	DeletedAt       *time.Time  `json:"deleted_at,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID                int                 `json:"id"`
	OrderID           int                 `json:"order_id"`
	ProductID         int                 `json:"product_id"`
	ProductVariantID  *int                `json:"product_variant_id,omitempty"`
	Quantity          int                 `json:"quantity"`
	BasePrice         float64             `json:"base_price"`
	FinalPrice        float64             `json:"final_price"`
	PreparationStatus PreparationStatus   `json:"preparation_status"`
	StatusChangedAt   time.Time           `json:"status_changed_at"`
	PreparationNotes  string              `json:"preparation_notes,omitempty"`
	Modifiers         []OrderItemModifier `json:"modifiers,omitempty"`
}

type OrderItemModifier struct {
	ID               int     `json:"id"`
	OrderItemID      int     `json:"order_item_id"`
	ModifierID       int     `json:"modifier_id"`
	ModifierOptionID *int    `json:"modifier_option_id,omitempty"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
}

// UserProjection is the denormalized slice of a user attached to history rows.
type UserProjection struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type OrderHistory struct {
	ID            int             `json:"id"`
	OrderID       int             `json:"order_id"`
	Operation     Operation       `json:"operation"`
	ChangedBy     int             `json:"changed_by"`
	ChangedAt     time.Time       `json:"changed_at"`
	Diff          json.RawMessage `json:"diff,omitempty"`
	Snapshot      json.RawMessage `json:"snapshot"`
	ChangedByUser *UserProjection `json:"changed_by_user,omitempty"`
}

type OrderItemHistory struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	OrderItemID int             `json:"order_item_id"`
	Operation   Operation       `json:"operation"`
	ChangedBy   int             `json:"changed_by"`
	ChangedAt   time.Time       `json:"changed_at"`
	Diff        json.RawMessage `json:"diff,omitempty"`
	Snapshot    json.RawMessage `json:"snapshot"`
}

type TicketImpression struct {
	ID             int        `json:"id"`
	OrderID        int        `json:"order_id"`
	UserID         int        `json:"user_id"`
	TicketType     TicketType `json:"ticket_type"`
	ImpressionTime time.Time  `json:"impression_time"`
}

type CreateOrderItemModifierInput struct {
	ModifierID       int     `json:"modifier_id"`
	ModifierOptionID *int    `json:"modifier_option_id,omitempty"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
}

type CreateOrderItemInput struct {
	ProductID        int                            `json:"product_id"`
	ProductVariantID *int                           `json:"product_variant_id,omitempty"`
	Quantity         int                            `json:"quantity"`
	BasePrice        float64                        `json:"base_price"`
	FinalPrice       float64                        `json:"final_price"`
	PreparationNotes string                         `json:"preparation_notes,omitempty"`
	Modifiers        []CreateOrderItemModifierInput `json:"modifiers,omitempty"`
}

type CreateOrderInput struct {
	UserID          int                    `json:"user_id"`
	TableID         *int                   `json:"table_id,omitempty"`
	OrderType       OrderType              `json:"order_type"`
	Notes           string                 `json:"notes,omitempty"`
	CustomerName    string                 `json:"customer_name,omitempty"`
	PhoneNumber     string                 `json:"phone_number,omitempty"`
	DeliveryAddress string                 `json:"delivery_address,omitempty"`
	Items           []CreateOrderItemInput `json:"items"`
}

// UpdateOrderInput carries a partial update; nil fields are left untouched.
type UpdateOrderInput struct {
	OrderStatus     *OrderStatus `json:"order_status,omitempty"`
	TableID         *int         `json:"table_id,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	CustomerName    *string      `json:"customer_name,omitempty"`
	PhoneNumber     *string      `json:"phone_number,omitempty"`
	DeliveryAddress *string      `json:"delivery_address,omitempty"`
}

type UpdateOrderItemInput struct {
	PreparationStatus *PreparationStatus `json:"preparation_status,omitempty"`
	Quantity          *int               `json:"quantity,omitempty"`
	PreparationNotes  *string            `json:"preparation_notes,omitempty"`
}

// OrderEvent is published to Kafka after a mutation commits.
type OrderEvent struct {
	Type        string      `json:"type"`
	OrderID     int         `json:"order_id"`
	DailyNumber int         `json:"daily_number"`
	OrderStatus OrderStatus `json:"order_status,omitempty"`
	TicketType  TicketType  `json:"ticket_type,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventTicketPrinted      = "ticket_printed"
)

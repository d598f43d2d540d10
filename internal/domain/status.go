package domain

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusReady      OrderStatus = "READY"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type PreparationStatus string

const (
	PreparationPending    PreparationStatus = "PENDING"
	PreparationInProgress PreparationStatus = "IN_PROGRESS"
	PreparationReady      PreparationStatus = "READY"
	PreparationDelivered  PreparationStatus = "DELIVERED"
	PreparationCancelled  PreparationStatus = "CANCELLED"
)

// Orders only move forward; CANCELLED is reachable from any non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:      {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {OrderStatusCompleted, OrderStatusCancelled},
}

// Items that already reached READY or DELIVERED cannot be cancelled; those are
// handled as refunds outside the state machine.
var preparationTransitions = map[PreparationStatus][]PreparationStatus{
	PreparationPending:    {PreparationInProgress, PreparationCancelled},
	PreparationInProgress: {PreparationReady, PreparationCancelled},
	PreparationReady:      {PreparationDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s PreparationStatus) Valid() bool {
	switch s {
	case PreparationPending, PreparationInProgress, PreparationReady,
		PreparationDelivered, PreparationCancelled:
		return true
	}
	return false
}

func (s PreparationStatus) Terminal() bool {
	return s == PreparationDelivered || s == PreparationCancelled
}

func (s PreparationStatus) CanTransitionTo(target PreparationStatus) bool {
	for _, next := range preparationTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

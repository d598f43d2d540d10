package domain

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrItemNotFound    = errors.New("order item not found")
	ErrCounterNotFound = errors.New("daily counter not found")

	// ErrInvalidTransition means the state machine rejected a status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOrderClosed means the order is COMPLETED or CANCELLED and no longer
	// accepts mutations other than removal.
	ErrOrderClosed = errors.New("order is in a terminal state")

	// ErrDuplicateDailyNumber is a lost race on (daily_counter_id, daily_number).
	// Never retried here; the caller re-submits the whole create call.
	ErrDuplicateDailyNumber = errors.New("duplicate daily number for counter")

	ErrInvalidPayload = errors.New("invalid payload")
)

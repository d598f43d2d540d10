package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resto-orders/internal/domain"
)

// FindOrCreateCounter returns the counter row for the given calendar day,
// creating it at zero on the first order of the day. The upsert makes
// concurrent first-of-day callers converge on the same row.
func (r *PostgresRepository) FindOrCreateCounter(ctx context.Context, date time.Time) (*domain.DailyCounter, error) {
	day := date.UTC().Format("2006-01-02")

	var counter domain.DailyCounter
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO daily_counters (counter_date, current_number)
		VALUES ($1, 0)
		ON CONFLICT (counter_date) DO UPDATE SET counter_date = EXCLUDED.counter_date
		RETURNING id, counter_date, current_number
	`, day).Scan(&counter.ID, &counter.Date, &counter.CurrentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve daily counter: %w", err)
	}
	return &counter, nil
}

// IncrementCounter atomically bumps the counter and returns the new value.
// It never creates a row; a missing counter is a NotFound.
func (r *PostgresRepository) IncrementCounter(ctx context.Context, counterID int) (int, error) {
	return incrementCounter(ctx, r.DB, counterID)
}

// incrementCounter is the single read-modify-write for daily numbers. The
// row-level lock taken by the UPDATE is what serializes concurrent callers;
// inside a transaction it is held until commit so a rolled-back order never
// burns a number.
func incrementCounter(ctx context.Context, q dbtx, counterID int) (int, error) {
	var number int
	err := q.QueryRowContext(ctx, `
		UPDATE daily_counters
		SET current_number = current_number + 1
		WHERE id = $1
		RETURNING current_number
	`, counterID).Scan(&number)
	if err == sql.ErrNoRows {
		return 0, domain.ErrCounterNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment daily counter: %w", err)
	}
	return number, nil
}

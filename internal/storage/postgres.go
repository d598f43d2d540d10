package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"resto-orders/internal/domain"
)

// PostgresRepository implements every aggregate repository interface consumed
// by the service layer. Mutations that span the counter, the aggregate and
// the audit rows run in a single transaction here.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation
}

// translateOrderInsertErr maps a failed order insert to the domain taxonomy.
// A unique violation on (daily_counter_id, daily_number) means the atomic
// increment lost a race and must surface, never be swallowed.
func translateOrderInsertErr(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicateDailyNumber
	}
	return err
}

package storage

import (
	"context"
	"fmt"

	"resto-orders/internal/domain"
)

// InsertTicketImpression appends one print record. Reprints are normal;
// there is no dedup beyond the primary key.
func (r *PostgresRepository) InsertTicketImpression(ctx context.Context, impression *domain.TicketImpression) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO ticket_impressions (order_id, user_id, ticket_type)
		VALUES ($1, $2, $3)
		RETURNING id, impression_time
	`, impression.OrderID, impression.UserID, impression.TicketType).
		Scan(&impression.ID, &impression.ImpressionTime)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("failed to insert ticket impression: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListTicketImpressions(ctx context.Context, orderID int) ([]domain.TicketImpression, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, user_id, ticket_type, impression_time
		FROM ticket_impressions
		WHERE order_id = $1
		ORDER BY impression_time DESC, id DESC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket impressions: %w", err)
	}
	defer rows.Close()

	impressions := []domain.TicketImpression{}
	for rows.Next() {
		var impression domain.TicketImpression
		if err := rows.Scan(&impression.ID, &impression.OrderID, &impression.UserID,
			&impression.TicketType, &impression.ImpressionTime); err != nil {
			return nil, fmt.Errorf("failed to scan ticket impression: %w", err)
		}
		impressions = append(impressions, impression)
	}
	return impressions, rows.Err()
}

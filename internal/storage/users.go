package storage

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"resto-orders/internal/domain"
)

// GetUsersByIDs batch-resolves the denormalized user projections attached to
// history reads. Missing ids are simply absent from the result.
func (r *PostgresRepository) GetUsersByIDs(ctx context.Context, ids []int) (map[int]domain.UserProjection, error) {
	if len(ids) == 0 {
		return map[int]domain.UserProjection{}, nil
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(username, '')
		FROM users
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := map[int]domain.UserProjection{}
	for rows.Next() {
		var user domain.UserProjection
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	return users, rows.Err()
}

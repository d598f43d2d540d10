package storage

import (
	"context"
	"fmt"

	"resto-orders/internal/audit"
	"resto-orders/internal/domain"
)

// orderProjection flattens an order without its items; item mutations are
// audited in their own table.
func orderProjection(order *domain.Order) (map[string]interface{}, error) {
	if order == nil {
		return nil, nil
	}
	shallow := *order
	shallow.Items = nil
	return audit.Projection(shallow)
}

func itemProjection(item *domain.OrderItem) (map[string]interface{}, error) {
	if item == nil {
		return nil, nil
	}
	shallow := *item
	shallow.Modifiers = nil
	return audit.Projection(shallow)
}

// recordOrderChange writes the history row for an order mutation inside the
// caller's transaction. For updates an empty diff means a no-op and nothing
// is written. Any failure here fails the whole mutation.
func recordOrderChange(ctx context.Context, q dbtx, op domain.Operation, changedBy int, before, after *domain.Order) error {
	beforeFields, err := orderProjection(before)
	if err != nil {
		return fmt.Errorf("failed to project order: %w", err)
	}
	afterFields, err := orderProjection(after)
	if err != nil {
		return fmt.Errorf("failed to project order: %w", err)
	}

	snapshotSource := afterFields
	orderID := 0
	if after != nil {
		orderID = after.ID
	}
	if op == domain.OperationDelete {
		snapshotSource = beforeFields
		orderID = before.ID
	}

	var diff map[string]audit.FieldChange
	if op == domain.OperationUpdate {
		diff = audit.Diff(beforeFields, afterFields)
		if len(diff) == 0 {
			return nil
		}
	}

	snapshot, err := audit.MarshalSnapshot(snapshotSource)
	if err != nil {
		return fmt.Errorf("failed to marshal order snapshot: %w", err)
	}
	rawDiff, err := audit.MarshalDiff(diff)
	if err != nil {
		return fmt.Errorf("failed to marshal order diff: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO order_history (order_id, operation, changed_by, diff, snapshot)
		VALUES ($1, $2, $3, $4, $5)
	`, orderID, op, changedBy, []byte(rawDiff), []byte(snapshot))
	if err != nil {
		return fmt.Errorf("failed to record order history: %w", err)
	}
	return nil
}

// recordItemChange is the order-item counterpart of recordOrderChange. The
// acting user is always the owning order's user; items carry no actor.
func recordItemChange(ctx context.Context, q dbtx, op domain.Operation, changedBy, orderID int, before, after *domain.OrderItem) error {
	beforeFields, err := itemProjection(before)
	if err != nil {
		return fmt.Errorf("failed to project order item: %w", err)
	}
	afterFields, err := itemProjection(after)
	if err != nil {
		return fmt.Errorf("failed to project order item: %w", err)
	}

	snapshotSource := afterFields
	itemID := 0
	if after != nil {
		itemID = after.ID
	}
	if op == domain.OperationDelete {
		snapshotSource = beforeFields
		itemID = before.ID
	}

	var diff map[string]audit.FieldChange
	if op == domain.OperationUpdate {
		diff = audit.Diff(beforeFields, afterFields)
		if len(diff) == 0 {
			return nil
		}
	}

	snapshot, err := audit.MarshalSnapshot(snapshotSource)
	if err != nil {
		return fmt.Errorf("failed to marshal order item snapshot: %w", err)
	}
	rawDiff, err := audit.MarshalDiff(diff)
	if err != nil {
		return fmt.Errorf("failed to marshal order item diff: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO order_item_history (order_id, order_item_id, operation, changed_by, diff, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, orderID, itemID, op, changedBy, []byte(rawDiff), []byte(snapshot))
	if err != nil {
		return fmt.Errorf("failed to record order item history: %w", err)
	}
	return nil
}

// OrderHistoryByOrder returns the order's history newest first plus the total
// row count for pagination. Rows are returned as stored; user enrichment is a
// service concern.
func (r *PostgresRepository) OrderHistoryByOrder(ctx context.Context, orderID, limit, offset int) ([]domain.OrderHistory, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM order_history WHERE order_id = $1
	`, orderID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count order history: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, operation, changed_by, changed_at, diff, snapshot
		FROM order_history
		WHERE order_id = $1
		ORDER BY changed_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, orderID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query order history: %w", err)
	}
	defer rows.Close()

	var history []domain.OrderHistory
	for rows.Next() {
		var row domain.OrderHistory
		if err := rows.Scan(&row.ID, &row.OrderID, &row.Operation, &row.ChangedBy,
			&row.ChangedAt, &row.Diff, &row.Snapshot); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order history row: %w", err)
		}
		history = append(history, row)
	}
	return history, total, rows.Err()
}

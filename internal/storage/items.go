package storage

import (
	"context"
	"database/sql"
	"fmt"

	"resto-orders/internal/domain"
)

// insertOrderItem writes one item and its modifiers inside the caller's
// transaction. Price fields go in verbatim; they are snapshots.
func insertOrderItem(ctx context.Context, q dbtx, item *domain.OrderItem) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO order_items (order_id, product_id, product_variant_id, quantity,
			base_price, final_price, preparation_status, preparation_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status_changed_at
	`, item.OrderID, item.ProductID, item.ProductVariantID, item.Quantity,
		item.BasePrice, item.FinalPrice, item.PreparationStatus, item.PreparationNotes).
		Scan(&item.ID, &item.StatusChangedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}

	for i := range item.Modifiers {
		mod := &item.Modifiers[i]
		mod.OrderItemID = item.ID
		err := q.QueryRowContext(ctx, `
			INSERT INTO order_item_modifiers (order_item_id, modifier_id, modifier_option_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, mod.OrderItemID, mod.ModifierID, mod.ModifierOptionID, mod.Quantity, mod.Price).
			Scan(&mod.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item modifier: %w", err)
		}
	}
	return nil
}

// refreshOrderTotals recomputes the order's subtotal/total from its current
// items and audits the resulting order update. Runs inside the mutating
// transaction with the order row already locked.
func refreshOrderTotals(ctx context.Context, q dbtx, before *domain.Order) error {
	after := *before
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity * base_price), 0), COALESCE(SUM(quantity * final_price), 0)
		FROM order_items
		WHERE order_id = $1
	`, before.ID).Scan(&after.Subtotal, &after.Total)
	if err != nil {
		return fmt.Errorf("failed to recompute order totals: %w", err)
	}

	err = q.QueryRowContext(ctx, `
		UPDATE orders SET subtotal = $1, total = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, after.Subtotal, after.Total, after.ID).Scan(&after.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}

	return recordOrderChange(ctx, q, domain.OperationUpdate, before.UserID, before, &after)
}

// AddItem appends one item (with modifiers) to an existing order, audits the
// item INSERT and the parent's totals change, all in one transaction.
func (r *PostgresRepository) AddItem(ctx context.Context, orderID int, item *domain.OrderItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	before, err := scanOrder(tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, orderID))
	if err == sql.ErrNoRows {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock order: %w", err)
	}
	if before.OrderStatus.Terminal() {
		return domain.ErrOrderClosed
	}

	item.OrderID = orderID
	if err := insertOrderItem(ctx, tx, item); err != nil {
		return err
	}
	if err := recordItemChange(ctx, tx, domain.OperationInsert, before.UserID, orderID, nil, item); err != nil {
		return err
	}
	if err := refreshOrderTotals(ctx, tx, before); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item insert: %w", err)
	}
	return nil
}

// lockItemWithOrder reads an item together with its parent's actor and status
// under FOR UPDATE so that both rows stay stable for the mutation.
func lockItemWithOrder(ctx context.Context, q dbtx, itemID int, includeDeletedParent bool) (*domain.OrderItem, int, domain.OrderStatus, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.product_variant_id, oi.quantity,
			oi.base_price, oi.final_price, oi.preparation_status, oi.status_changed_at,
			COALESCE(oi.preparation_notes, ''), o.user_id, o.order_status
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.id = $1`
	if !includeDeletedParent {
		query += ` AND o.deleted_at IS NULL`
	}
	query += `
		FOR UPDATE`

	var item domain.OrderItem
	var userID int
	var status domain.OrderStatus
	err := q.QueryRowContext(ctx, query, itemID).Scan(&item.ID, &item.OrderID, &item.ProductID,
		&item.ProductVariantID, &item.Quantity, &item.BasePrice, &item.FinalPrice,
		&item.PreparationStatus, &item.StatusChangedAt, &item.PreparationNotes, &userID, &status)
	if err == sql.ErrNoRows {
		return nil, 0, "", domain.ErrItemNotFound
	}
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to lock order item: %w", err)
	}
	return &item, userID, status, nil
}

// UpdateItem applies a partial item update. Status changes go through the
// preparation state machine and restamp status_changed_at; quantity changes
// cascade into the parent's totals.
func (r *PostgresRepository) UpdateItem(ctx context.Context, itemID int, input domain.UpdateOrderItemInput) (*domain.OrderItem, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	before, userID, orderStatus, err := lockItemWithOrder(ctx, tx, itemID, false)
	if err != nil {
		return nil, err
	}
	if orderStatus.Terminal() {
		return nil, domain.ErrOrderClosed
	}

	after := *before
	statusChanged := false
	if input.PreparationStatus != nil && *input.PreparationStatus != after.PreparationStatus {
		if !input.PreparationStatus.Valid() || !after.PreparationStatus.CanTransitionTo(*input.PreparationStatus) {
			return nil, domain.ErrInvalidTransition
		}
		after.PreparationStatus = *input.PreparationStatus
		statusChanged = true
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, domain.ErrInvalidPayload
		}
		after.Quantity = *input.Quantity
	}
	if input.PreparationNotes != nil {
		after.PreparationNotes = *input.PreparationNotes
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE order_items
		SET preparation_status = $1, quantity = $2, preparation_notes = $3,
			status_changed_at = CASE WHEN $4::boolean THEN NOW() ELSE status_changed_at END
		WHERE id = $5
		RETURNING status_changed_at
	`, after.PreparationStatus, after.Quantity, after.PreparationNotes, statusChanged, after.ID).
		Scan(&after.StatusChangedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update order item: %w", err)
	}

	if err := recordItemChange(ctx, tx, domain.OperationUpdate, userID, before.OrderID, before, &after); err != nil {
		return nil, err
	}

	if after.Quantity != before.Quantity {
		parent, err := scanOrder(tx.QueryRowContext(ctx, `
			SELECT `+orderColumns+` FROM orders WHERE id = $1
		`, before.OrderID))
		if err != nil {
			return nil, fmt.Errorf("failed to reread order: %w", err)
		}
		if err := refreshOrderTotals(ctx, tx, parent); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item update: %w", err)
	}
	return &after, nil
}

// DeleteItem removes an item and its modifiers and audits the DELETE with a
// full snapshot of the removed item. Removal is permitted even when the
// parent order is terminal or soft-deleted.
func (r *PostgresRepository) DeleteItem(ctx context.Context, itemID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	before, userID, _, err := lockItemWithOrder(ctx, tx, itemID, true)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM order_item_modifiers WHERE order_item_id = $1
	`, itemID); err != nil {
		return fmt.Errorf("failed to delete order item modifiers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM order_items WHERE id = $1
	`, itemID); err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}

	if err := recordItemChange(ctx, tx, domain.OperationDelete, userID, before.OrderID, before, nil); err != nil {
		return err
	}

	parent, err := scanOrder(tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1
	`, before.OrderID))
	if err != nil {
		return fmt.Errorf("failed to reread order: %w", err)
	}
	if err := refreshOrderTotals(ctx, tx, parent); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item delete: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resto-orders/internal/domain"
)

const orderColumns = `id, user_id, table_id, daily_number, daily_counter_id, order_type, order_status,
		subtotal, total, COALESCE(notes, ''), COALESCE(customer_name, ''), COALESCE(phone_number, ''),
		COALESCE(delivery_address, ''), created_at, updated_at, deleted_at`

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(&order.ID, &order.UserID, &order.TableID, &order.DailyNumber, &order.DailyCounterID,
		&order.OrderType, &order.OrderStatus, &order.Subtotal, &order.Total, &order.Notes,
		&order.CustomerName, &order.PhoneNumber, &order.DeliveryAddress,
		&order.CreatedAt, &order.UpdatedAt, &order.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder persists the whole aggregate in one transaction: counter
// increment, order row, items, modifiers and the INSERT audit rows. If any
// step fails everything rolls back, counter increment included.
func (r *PostgresRepository) CreateOrder(ctx context.Context, counterID int, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	number, err := incrementCounter(ctx, tx, counterID)
	if err != nil {
		return err
	}
	order.DailyCounterID = counterID
	order.DailyNumber = number

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, table_id, daily_number, daily_counter_id, order_type, order_status,
			subtotal, total, notes, customer_name, phone_number, delivery_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, order.UserID, order.TableID, order.DailyNumber, order.DailyCounterID, order.OrderType,
		order.OrderStatus, order.Subtotal, order.Total, order.Notes, order.CustomerName,
		order.PhoneNumber, order.DeliveryAddress).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return translateOrderInsertErr(err)
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := insertOrderItem(ctx, tx, &order.Items[i]); err != nil {
			return err
		}
	}

	if err := recordOrderChange(ctx, tx, domain.OperationInsert, order.UserID, nil, order); err != nil {
		return err
	}
	for i := range order.Items {
		if err := recordItemChange(ctx, tx, domain.OperationInsert, order.UserID, order.ID, nil, &order.Items[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// GetOrder returns the hydrated aggregate: order, items and modifiers.
func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND deleted_at IS NULL
	`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_variant_id, quantity, base_price, final_price,
			preparation_status, status_changed_at, COALESCE(preparation_notes, '')
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	index := map[int]int{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductVariantID,
			&item.Quantity, &item.BasePrice, &item.FinalPrice, &item.PreparationStatus,
			&item.StatusChangedAt, &item.PreparationNotes); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		index[item.ID] = len(order.Items)
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	modRows, err := r.DB.QueryContext(ctx, `
		SELECT m.id, m.order_item_id, m.modifier_id, m.modifier_option_id, m.quantity, m.price
		FROM order_item_modifiers m
		JOIN order_items oi ON m.order_item_id = oi.id
		WHERE oi.order_id = $1
		ORDER BY m.id
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to query order item modifiers: %w", err)
	}
	defer modRows.Close()

	for modRows.Next() {
		var mod domain.OrderItemModifier
		if err := modRows.Scan(&mod.ID, &mod.OrderItemID, &mod.ModifierID, &mod.ModifierOptionID,
			&mod.Quantity, &mod.Price); err != nil {
			return fmt.Errorf("failed to scan order item modifier: %w", err)
		}
		if i, ok := index[mod.OrderItemID]; ok {
			order.Items[i].Modifiers = append(order.Items[i].Modifiers, mod)
		}
	}
	return modRows.Err()
}

// ListOrders returns the shallow order rows for one calendar day, newest
// daily number first.
func (r *PostgresRepository) ListOrders(ctx context.Context, day time.Time) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE created_at::DATE = $1 AND deleted_at IS NULL
		ORDER BY daily_number DESC
	`, day.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.TableID, &order.DailyNumber,
			&order.DailyCounterID, &order.OrderType, &order.OrderStatus, &order.Subtotal,
			&order.Total, &order.Notes, &order.CustomerName, &order.PhoneNumber,
			&order.DeliveryAddress, &order.CreatedAt, &order.UpdatedAt, &order.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// FindOpenOrderByTable returns the newest non-terminal order for a table.
func (r *PostgresRepository) FindOpenOrderByTable(ctx context.Context, tableID int) (*domain.Order, error) {
	var id int
	err := r.DB.QueryRowContext(ctx, `
		SELECT id FROM orders
		WHERE table_id = $1 AND deleted_at IS NULL AND order_status NOT IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 1
	`, tableID, domain.OrderStatusCompleted, domain.OrderStatusCancelled).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query open order: %w", err)
	}
	return r.GetOrder(ctx, id)
}

// UpdateOrder applies a partial update under a row lock, validating the
// status transition against the locked row, and writes the UPDATE audit row
// in the same transaction. A no-op patch commits without a history row.
func (r *PostgresRepository) UpdateOrder(ctx context.Context, id int, input domain.UpdateOrderInput) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	before, err := scanOrder(tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	if before.OrderStatus.Terminal() {
		return nil, domain.ErrOrderClosed
	}

	after := *before
	if input.OrderStatus != nil && *input.OrderStatus != after.OrderStatus {
		if !input.OrderStatus.Valid() || !after.OrderStatus.CanTransitionTo(*input.OrderStatus) {
			return nil, domain.ErrInvalidTransition
		}
		after.OrderStatus = *input.OrderStatus
	}
	if input.TableID != nil {
		after.TableID = input.TableID
	}
	if input.Notes != nil {
		after.Notes = *input.Notes
	}
	if input.CustomerName != nil {
		after.CustomerName = *input.CustomerName
	}
	if input.PhoneNumber != nil {
		after.PhoneNumber = *input.PhoneNumber
	}
	if input.DeliveryAddress != nil {
		after.DeliveryAddress = *input.DeliveryAddress
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE orders
		SET order_status = $1, table_id = $2, notes = $3, customer_name = $4,
			phone_number = $5, delivery_address = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`, after.OrderStatus, after.TableID, after.Notes, after.CustomerName,
		after.PhoneNumber, after.DeliveryAddress, after.ID).
		Scan(&after.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err := recordOrderChange(ctx, tx, domain.OperationUpdate, before.UserID, before, &after); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}
	return &after, nil
}

// SoftDeleteOrder stamps deleted_at and writes the DELETE audit row. Removal
// is allowed regardless of status, terminal included.
func (r *PostgresRepository) SoftDeleteOrder(ctx context.Context, id int) error {
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
	`, id))
	if err == sql.ErrNoRows {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("failed to soft delete order: %w", err)
	}

	if err := recordOrderChange(ctx, tx, domain.OperationDelete, before.UserID, before, nil); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order delete: %w", err)
	}
	return nil
}

// GetOrderQRCode returns the stored customer-copy QR code, which may be empty.
func (r *PostgresRepository) GetOrderQRCode(ctx context.Context, id int) ([]byte, error) {
	var code []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT qr_code FROM orders WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&code)
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order qr code: %w", err)
	}
	return code, nil
}

func (r *PostgresRepository) SaveOrderQRCode(ctx context.Context, id int, code []byte) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET qr_code = $1 WHERE id = $2
	`, code, id)
	return err
}

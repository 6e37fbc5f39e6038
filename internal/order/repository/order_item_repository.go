package repository

import (
	"context"
	"database/sql"
	"fmt"

	"karen/internal/domain"
	"karen/internal/infrastructure/mysql"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx mysql.DBTX, item domain.OrderItem) (uint, error) {
	query := `INSERT INTO OrderItems (order_id, product_id, quantity) VALUES (?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, item.OrderID, item.ProductID, item.Quantity)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

// FindByOrderIDs groups the items of the given orders by order id.
func (r *MySQLOrderItemRepository) FindByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.OrderItem, error) {
	items := make(map[uint][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	placeholders, args := inClause(orderIDs)
	query := fmt.Sprintf(`SELECT id, order_id, product_id, quantity FROM OrderItems WHERE order_id IN (%s) ORDER BY id`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

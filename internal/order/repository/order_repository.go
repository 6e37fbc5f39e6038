package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"karen/internal/domain"
	apperrors "karen/internal/errors"
	"karen/internal/infrastructure/mysql"
)

const orderColumns = `id, customer_name, customer_phone, payment_method, transaction_id,
		       total_amount, is_paid, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx mysql.DBTX, order domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (customer_name, customer_phone, payment_method, transaction_id,
		                    total_amount, is_paid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.CustomerName, order.CustomerPhone, string(order.PaymentMethod), order.TransactionID,
		order.TotalAmount, order.IsPaid, order.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindByIDForUpdate locks the order row until tx ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx mysql.DBTX, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ? FOR UPDATE`

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking order by id: %w", err)
	}

	return order, nil
}

// FindUnpaidMatchForUpdate locks the most recently created unpaid order placed from one of
// phones for exactly amount that has no payment reference yet.
func (r *MySQLOrderRepository) FindUnpaidMatchForUpdate(ctx context.Context, tx mysql.DBTX, phones []string, amount decimal.Decimal) (*domain.Order, error) {
	if len(phones) == 0 {
		return nil, apperrors.NewNotFoundError("no unpaid order matches the payment")
	}

	placeholders, args := inClause(phones)
	args = append(args, amount)

	query := fmt.Sprintf(`
		SELECT %s
		FROM Orders
		WHERE customer_phone IN (%s)
		  AND total_amount = ?
		  AND is_paid = 0
		  AND (transaction_id = '' OR transaction_id IS NULL)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
		FOR UPDATE`, orderColumns, placeholders)

	order, err := scanOrder(tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("no unpaid order matches the payment")
	}
	if err != nil {
		return nil, fmt.Errorf("querying unpaid order match: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) MarkPaid(ctx context.Context, tx mysql.DBTX, id uint, receiptNumber, customerPhone string) error {
	query := `UPDATE Orders SET transaction_id = ?, customer_phone = ?, is_paid = 1 WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, receiptNumber, customerPhone, id)
	if err != nil {
		return fmt.Errorf("marking order paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// FindByPhones returns orders placed from any of the given numbers, newest first.
func (r *MySQLOrderRepository) FindByPhones(ctx context.Context, phones ...string) ([]domain.Order, error) {
	if len(phones) == 0 {
		return nil, nil
	}

	placeholders, args := inClause(phones)
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE customer_phone IN (%s) ORDER BY created_at DESC, id DESC`,
		orderColumns, placeholders)

	return r.queryOrders(ctx, query, args...)
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders ORDER BY created_at DESC, id DESC`
	return r.queryOrders(ctx, query)
}

// FindCreatedBetween returns orders with from <= created_at < to, newest first.
func (r *MySQLOrderRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE created_at >= ? AND created_at < ? ORDER BY created_at DESC, id DESC`
	return r.queryOrders(ctx, query, from, to)
}

// MonthlyEarnings sums paid order totals per calendar month, oldest month first.
func (r *MySQLOrderRepository) MonthlyEarnings(ctx context.Context) ([]domain.MonthlyEarning, error) {
	query := `
		SELECT DATE_FORMAT(created_at, '%Y-%m') AS month, SUM(total_amount)
		FROM Orders
		WHERE is_paid = 1
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying monthly earnings: %w", err)
	}
	defer rows.Close()

	var earnings []domain.MonthlyEarning
	for rows.Next() {
		var e domain.MonthlyEarning
		if err := rows.Scan(&e.Month, &e.Total); err != nil {
			return nil, fmt.Errorf("scanning monthly earnings row: %w", err)
		}
		earnings = append(earnings, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly earnings rows: %w", err)
	}

	return earnings, nil
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order         domain.Order
		customerName  sql.NullString
		customerPhone sql.NullString
		paymentMethod string
		transactionID sql.NullString
	)

	err := row.Scan(
		&order.ID, &customerName, &customerPhone, &paymentMethod, &transactionID,
		&order.TotalAmount, &order.IsPaid, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerName.Valid {
		order.CustomerName = &customerName.String
	}
	if customerPhone.Valid {
		order.CustomerPhone = &customerPhone.String
	}
	order.PaymentMethod = domain.PaymentMethod(paymentMethod)
	order.TransactionID = transactionID.String

	return &order, nil
}

func inClause[T any](values []T) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, 0, len(values)+1)
	for i, v := range values {
		placeholders[i] = "?"
		args = append(args, v)
	}
	return strings.Join(placeholders, ", "), args
}

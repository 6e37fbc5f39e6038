package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"karen/internal/domain"
	apperrors "karen/internal/errors"
	"karen/internal/infrastructure/mysql"
)

const transactionColumns = `id, receipt_number, phone_number, amount, transaction_date, merchant_request_id,
		       checkout_request_id, result_code, result_description, order_id, created_at`

type MySQLTransactionRepository struct {
	db *sql.DB
}

func NewMySQLTransactionRepository(db *sql.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{db: db}
}

// Insert stores a confirmed payment. The unique index on receipt_number is the only
// duplicate-delivery guard; a violation is reported as DuplicateReceiptError.
func (r *MySQLTransactionRepository) Insert(ctx context.Context, tx mysql.DBTX, txn domain.MpesaTransaction) (uint, error) {
	query := `
		INSERT INTO MpesaTransactions (receipt_number, phone_number, amount, transaction_date,
		                               merchant_request_id, checkout_request_id, result_code,
		                               result_description, order_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		txn.ReceiptNumber, txn.PhoneNumber, txn.Amount, txn.TransactionDate,
		txn.MerchantRequestID, txn.CheckoutRequestID, txn.ResultCode,
		txn.ResultDescription, txn.OrderID,
	)
	if mysql.IsDuplicateEntry(err) {
		return 0, apperrors.NewDuplicateReceiptError(txn.ReceiptNumber)
	}
	if err != nil {
		return 0, fmt.Errorf("inserting mpesa transaction: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLTransactionRepository) FindAll(ctx context.Context) ([]domain.MpesaTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM MpesaTransactions ORDER BY transaction_date DESC, id DESC`
	return r.queryTransactions(ctx, query)
}

// FindByPhones returns transactions paid from any of the given numbers, newest first.
func (r *MySQLTransactionRepository) FindByPhones(ctx context.Context, phones ...string) ([]domain.MpesaTransaction, error) {
	if len(phones) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(phones))
	args := make([]any, len(phones))
	for i, p := range phones {
		placeholders[i] = "?"
		args[i] = p
	}

	query := fmt.Sprintf(`SELECT %s FROM MpesaTransactions WHERE phone_number IN (%s) ORDER BY transaction_date DESC, id DESC`,
		transactionColumns, strings.Join(placeholders, ", "))

	return r.queryTransactions(ctx, query, args...)
}

func (r *MySQLTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.MpesaTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mpesa transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.MpesaTransaction
	for rows.Next() {
		var (
			t       domain.MpesaTransaction
			orderID sql.NullInt64
		)
		err := rows.Scan(
			&t.ID, &t.ReceiptNumber, &t.PhoneNumber, &t.Amount, &t.TransactionDate, &t.MerchantRequestID,
			&t.CheckoutRequestID, &t.ResultCode, &t.ResultDescription, &orderID, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning mpesa transaction row: %w", err)
		}
		if orderID.Valid {
			id := uint(orderID.Int64)
			t.OrderID = &id
		}
		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mpesa transaction rows: %w", err)
	}

	return txns, nil
}

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karen/internal/domain"
	apperrors "karen/internal/errors"
	"karen/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestInClause(t *testing.T) {
	placeholders, args := inClause([]string{"0712345678", "254712345678"})

	assert.Equal(t, "?, ?", placeholders)
	assert.Equal(t, []any{"0712345678", "254712345678"}, args)
}

// Integration Tests

func TestOrderRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	name := "Achieng"
	phone := "0712345678"
	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	id, err := repo.Insert(context.Background(), db, domain.Order{
		CustomerName:  &name,
		CustomerPhone: &phone,
		PaymentMethod: domain.PaymentMethodMpesa,
		TotalAmount:   decimal.RequireFromString("500.00"),
		CreatedAt:     created,
	})
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	require.NotNil(t, order.CustomerName)
	assert.Equal(t, "Achieng", *order.CustomerName)
	require.NotNil(t, order.CustomerPhone)
	assert.Equal(t, "0712345678", *order.CustomerPhone)
	assert.Equal(t, domain.PaymentMethodMpesa, order.PaymentMethod)
	assert.Equal(t, "", order.TransactionID)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(500)))
	assert.False(t, order.IsPaid)
	assert.True(t, created.Equal(order.CreatedAt))
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), uint(9999))
	assert.Error(t, err)
	assert.Nil(t, order)

	nfe, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestOrderRepository_FindByID_NullableFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	result, err := db.Exec(`
		INSERT INTO Orders (payment_method, transaction_id, total_amount)
		VALUES ('card', NULL, 150.50)
	`)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), uint(id))
	require.NoError(t, err)
	assert.Nil(t, order.CustomerName)
	assert.Nil(t, order.CustomerPhone)
	assert.Equal(t, "", order.TransactionID)
	assert.Equal(t, domain.PaymentMethodCard, order.PaymentMethod)
}

func TestOrderRepository_MarkPaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := testutil.InsertOrder(t, db, "254712345678", "500.00", "2024-01-15 09:00:00")

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = repo.FindByIDForUpdate(context.Background(), tx, id)
	require.NoError(t, err)

	err = repo.MarkPaid(context.Background(), tx, id, "ABC123XYZ", "0712345678")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, order.IsPaid)
	assert.Equal(t, "ABC123XYZ", order.TransactionID)
	assert.Equal(t, "0712345678", *order.CustomerPhone)
}

func TestOrderRepository_MarkPaid_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.MarkPaid(context.Background(), tx, uint(9999), "ABC123XYZ", "0712345678")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_MarkPaid_RolledBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := testutil.InsertOrder(t, db, "0712345678", "100.00", "2024-01-15 09:00:00")

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, repo.MarkPaid(context.Background(), tx, id, "ROLLBACK1", "0712345678"))
	require.NoError(t, tx.Rollback())

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, order.IsPaid)
	assert.Equal(t, "", order.TransactionID)
}

func TestOrderRepository_FindUnpaidMatchForUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	testutil.InsertOrder(t, db, "0712345678", "500.00", "2024-01-15 08:00:00")
	newest := testutil.InsertOrder(t, db, "254712345678", "500.00", "2024-01-15 09:00:00")
	testutil.InsertOrder(t, db, "0712345678", "499.00", "2024-01-15 10:00:00")
	paid := testutil.InsertOrder(t, db, "0712345678", "500.00", "2024-01-15 11:00:00")
	referenced := testutil.InsertOrder(t, db, "0712345678", "500.00", "2024-01-15 12:00:00")
	_, err := db.Exec(`UPDATE Orders SET is_paid = 1 WHERE id = ?`, paid)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE Orders SET transaction_id = 'EARLIER1' WHERE id = ?`, referenced)
	require.NoError(t, err)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	order, err := repo.FindUnpaidMatchForUpdate(context.Background(), tx,
		[]string{"0712345678", "254712345678"}, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, newest, order.ID)
}

func TestOrderRepository_FindUnpaidMatchForUpdate_NoMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	testutil.InsertOrder(t, db, "0799999999", "500.00", "2024-01-15 08:00:00")

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.FindUnpaidMatchForUpdate(context.Background(), tx, []string{"0712345678"}, decimal.NewFromInt(500))
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_Listings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	jan := testutil.InsertOrder(t, db, "0712345678", "500.00", "2024-01-15 09:00:00")
	feb := testutil.InsertOrder(t, db, "254712345678", "250.00", "2024-02-03 12:00:00")
	testutil.InsertOrder(t, db, "0700000000", "100.00", "2024-02-03 23:59:59")
	_, err := db.Exec(`UPDATE Orders SET is_paid = 1 WHERE id IN (?, ?)`, jan, feb)
	require.NoError(t, err)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byPhone, err := repo.FindByPhones(context.Background(), "0712345678", "254712345678")
	require.NoError(t, err)
	require.Len(t, byPhone, 2)
	assert.Equal(t, feb, byPhone[0].ID)

	day := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	byDate, err := repo.FindCreatedBetween(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	earnings, err := repo.MonthlyEarnings(context.Background())
	require.NoError(t, err)
	require.Len(t, earnings, 2)
	assert.Equal(t, "2024-01", earnings[0].Month)
	assert.Equal(t, "500.00", earnings[0].Total.StringFixed(2))
	assert.Equal(t, "2024-02", earnings[1].Month)
	assert.Equal(t, "250.00", earnings[1].Total.StringFixed(2))
}

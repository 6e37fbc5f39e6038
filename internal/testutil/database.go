package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"karen/internal/config"
	"karen/internal/infrastructure/mysql"
)

// TestDatabaseConfig points at a local MySQL with a 'karen_test' database.
func TestDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:         "localhost",
		Port:         3306,
		User:         "root",
		Name:         "karen_test",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}
}

// SetupTestDB connects to the test database and skips the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := mysql.NewConnection(TestDatabaseConfig())
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the embedded migrations to the test database.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.MigrateUp(TestDatabaseConfig(), zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties every table, children first, and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"MpesaTransactions", "OrderItems", "Orders", "Locations", "Products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// InsertProduct creates a catalog row for order item foreign keys.
func InsertProduct(t *testing.T, db *sql.DB, name string, price string) int {
	t.Helper()

	result, err := db.Exec(`INSERT INTO Products (name, price) VALUES (?, ?)`, name, price)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return int(id)
}

// InsertOrder creates an unpaid order and returns its id.
func InsertOrder(t *testing.T, db *sql.DB, phone string, amount string, createdAt string) uint {
	t.Helper()

	result, err := db.Exec(`
		INSERT INTO Orders (customer_name, customer_phone, payment_method, transaction_id, total_amount, is_paid, created_at)
		VALUES ('Test Customer', ?, 'mpesa', '', ?, 0, ?)
	`, phone, amount, createdAt)
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read order id: %v", err)
	}
	return uint(id)
}

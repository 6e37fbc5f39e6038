package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karen/internal/testutil"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestRepository_FindActiveByIDs_EmptyList(t *testing.T) {
	repo := NewMySQLRepository(&sql.DB{})

	products, err := repo.FindActiveByIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, products)
}

// Integration Tests

func TestRepository_FindActiveByIDs_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	first := testutil.InsertProduct(t, db, "Rose bouquet", "1200.00")
	second := testutil.InsertProduct(t, db, "Gift card", "500.00")

	products, err := repo.FindActiveByIDs(context.Background(), []int{second, first, 999999})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, first, products[0].ID)
	assert.Equal(t, "Rose bouquet", products[0].Name)
	assert.Equal(t, "1200.00", products[0].Price.StringFixed(2))
	assert.Equal(t, second, products[1].ID)
}

func TestRepository_FindActiveByIDs_SkipsInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	id := testutil.InsertProduct(t, db, "Retired item", "10.00")
	_, err := db.Exec(`UPDATE Products SET is_active = 0 WHERE id = ?`, id)
	require.NoError(t, err)

	products, err := repo.FindActiveByIDs(context.Background(), []int{id})
	require.NoError(t, err)
	assert.Empty(t, products)
}

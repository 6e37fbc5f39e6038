package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karen/internal/domain"
	apperrors "karen/internal/errors"
	"karen/internal/testutil"
)

func TestLocationRepository_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLLocationRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, domain.Location{Name: "Karen", DeliveryPrice: decimal.RequireFromString("250.00")})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, domain.Location{Name: "Westlands", DeliveryPrice: decimal.RequireFromString("300.00")})
	require.NoError(t, err)

	location, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Karen", location.Name)

	location.DeliveryPrice = decimal.RequireFromString("275.50")
	require.NoError(t, repo.Update(ctx, *location))

	locations, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Karen", locations[0].Name)
	assert.Equal(t, "275.50", locations[0].DeliveryPrice.StringFixed(2))

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.FindByID(ctx, id)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestLocationRepository_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLLocationRepository(db)
	ctx := context.Background()

	_, err := repo.Insert(ctx, domain.Location{Name: "Karen", DeliveryPrice: decimal.NewFromInt(250)})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, domain.Location{Name: "Karen", DeliveryPrice: decimal.NewFromInt(100)})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "name", ve.Details[0].Field)
}

func TestLocationRepository_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	err := NewMySQLLocationRepository(db).Delete(context.Background(), 9999)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

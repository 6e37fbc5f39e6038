package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karen/internal/domain"
)

type mockRepository struct {
	FindActiveByIDsFunc func(ctx context.Context, ids []int) ([]domain.Product, error)
}

func (m *mockRepository) FindActiveByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	return m.FindActiveByIDsFunc(ctx, ids)
}

func TestGetProductsByIDs_SplitsMissing(t *testing.T) {
	repo := &mockRepository{
		FindActiveByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			return []domain.Product{{ID: 1, IsActive: true}, {ID: 3, IsActive: true}}, nil
		},
	}

	found, missing, err := NewService(repo).GetProductsByIDs(context.Background(), []int{3, 2, 1, 4})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, []int{2, 4}, missing)
}

func TestGetProductsByIDs_AllFound(t *testing.T) {
	repo := &mockRepository{
		FindActiveByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			return []domain.Product{{ID: 7}}, nil
		},
	}

	_, missing, err := NewService(repo).GetProductsByIDs(context.Background(), []int{7})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetProductsByIDs_RepositoryError(t *testing.T) {
	repo := &mockRepository{
		FindActiveByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, _, err := NewService(repo).GetProductsByIDs(context.Background(), []int{1})
	assert.Error(t, err)
}

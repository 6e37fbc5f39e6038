package service

import (
	"context"

	"karen/internal/domain"
)

type Repository interface {
	FindActiveByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
}

type ProductService struct {
	repo Repository
}

func NewService(repo Repository) *ProductService {
	return &ProductService{repo: repo}
}

// GetProductsByIDs splits ids into the active products found and the ids that do not
// resolve to an orderable product, preserving the order of ids.
func (s *ProductService) GetProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	found, err := s.repo.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[int]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []int
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}

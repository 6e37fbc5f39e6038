package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"karen/internal/domain"
	"karen/internal/dto"
	apperrors "karen/internal/errors"
)

const maxLocationNameSize = 100

const messageLocationNotFound = "Location not found."

type LocationRepository interface {
	FindAll(ctx context.Context) ([]domain.Location, error)
	FindByID(ctx context.Context, id uint) (*domain.Location, error)
	Insert(ctx context.Context, location domain.Location) (uint, error)
	Update(ctx context.Context, location domain.Location) error
	Delete(ctx context.Context, id uint) error
}

type LocationUseCase struct {
	repo LocationRepository
}

func NewLocationUseCase(repo LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

func (uc *LocationUseCase) List(ctx context.Context) ([]domain.Location, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *LocationUseCase) Create(ctx context.Context, req dto.LocationRequest) (*domain.Location, error) {
	location, err := validateLocation(req)
	if err != nil {
		return nil, err
	}

	location.ID, err = uc.repo.Insert(ctx, location)
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (uc *LocationUseCase) Update(ctx context.Context, id uint, req dto.LocationRequest) (*domain.Location, error) {
	if _, err := uc.find(ctx, id); err != nil {
		return nil, err
	}

	location, err := validateLocation(req)
	if err != nil {
		return nil, err
	}
	location.ID = id

	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return &location, nil
}

func (uc *LocationUseCase) Delete(ctx context.Context, id uint) error {
	err := uc.repo.Delete(ctx, id)
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return apperrors.NewNotFoundError(messageLocationNotFound)
	}
	return err
}

func (uc *LocationUseCase) find(ctx context.Context, id uint) (*domain.Location, error) {
	location, err := uc.repo.FindByID(ctx, id)
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return nil, apperrors.NewNotFoundError(messageLocationNotFound)
	}
	return location, err
}

func validateLocation(req dto.LocationRequest) (domain.Location, error) {
	var details []apperrors.ValidationDetail

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	case utf8.RuneCountInString(name) > maxLocationNameSize:
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: fmt.Sprintf("name must be at most %d characters", maxLocationNameSize),
		})
	}

	switch {
	case req.DeliveryPrice == nil:
		details = append(details, apperrors.ValidationDetail{Field: "delivery_price", Message: "delivery_price is required"})
	case req.DeliveryPrice.IsNegative():
		details = append(details, apperrors.ValidationDetail{Field: "delivery_price", Message: "delivery_price must not be negative"})
	case !req.DeliveryPrice.Equal(req.DeliveryPrice.Truncate(amountScale)):
		details = append(details, apperrors.ValidationDetail{Field: "delivery_price", Message: "delivery_price must have at most 2 decimal places"})
	case req.DeliveryPrice.GreaterThanOrEqual(maxAmount):
		details = append(details, apperrors.ValidationDetail{Field: "delivery_price", Message: "delivery_price must be less than 100000000"})
	}

	if len(details) > 0 {
		return domain.Location{}, apperrors.NewValidationError("validation failed", details...)
	}
	return domain.Location{Name: name, DeliveryPrice: *req.DeliveryPrice}, nil
}

package dto

import (
	"github.com/shopspring/decimal"

	"karen/internal/domain"
)

type LocationRequest struct {
	Name          string           `json:"name"`
	DeliveryPrice *decimal.Decimal `json:"delivery_price"`
}

type LocationResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	DeliveryPrice string `json:"delivery_price"`
}

func NewLocationResponse(l domain.Location) LocationResponse {
	return LocationResponse{
		ID:            l.ID,
		Name:          l.Name,
		DeliveryPrice: l.DeliveryPrice.StringFixed(2),
	}
}

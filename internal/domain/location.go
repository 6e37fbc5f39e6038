package domain

import "github.com/shopspring/decimal"

type Location struct {
	ID            uint
	Name          string
	DeliveryPrice decimal.Decimal
}

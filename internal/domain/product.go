package domain

import "github.com/shopspring/decimal"

// Product is the read-only view of a catalog entry needed to validate order items.
type Product struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	IsActive bool
}

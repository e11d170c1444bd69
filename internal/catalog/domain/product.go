package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID                string
	Name              string
	Price             decimal.Decimal
	AvailableQuantity int64
}

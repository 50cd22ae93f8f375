package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Company string          `json:"company"`
	Price   decimal.Decimal `json:"price"`
}

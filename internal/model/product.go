package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        *string         `json:"unit"`
	SKU         *string         `json:"sku"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LowStockProduct is the dashboard projection of a product running out.
type LowStockProduct struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	SKU   *string `json:"sku"`
	Stock int     `json:"stock"`
	Unit  *string `json:"unit"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusWaiting is the status every new order starts in.
const OrderStatusWaiting = "Aguardando"

type Order struct {
	ID           int64           `json:"id"`
	OrderNumber  string          `json:"order_number"`
	ClientID     int64           `json:"client_id"`
	Material     string          `json:"material"`
	Thickness    string          `json:"thickness"`
	Width        float64         `json:"width"`
	Length       float64         `json:"length"`
	Quantity     int             `json:"quantity"`
	Observations *string         `json:"observations"`
	Value        decimal.Decimal `json:"value"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MonthlySales aggregates orders of one calendar month.
type MonthlySales struct {
	Year        int             `json:"-"`
	Month       int             `json:"-"`
	MonthYear   string          `json:"month_year"`
	Label       string          `json:"label"`
	TotalValue  decimal.Decimal `json:"total_value"`
	TotalOrders int             `json:"total_orders"`
}

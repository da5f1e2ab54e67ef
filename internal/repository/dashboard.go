package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type DashboardRepository interface {
	WithDB(db db.DB) DashboardRepository
	// SalesByMonth groups orders by calendar month of created_at, oldest first.
	// MonthYear and Label are left for the caller to format.
	SalesByMonth(ctx context.Context) ([]model.MonthlySales, error)
	LowStockProducts(ctx context.Context, threshold int) ([]model.LowStockProduct, error)
}

type salesRow struct {
	Year        int32          `db:"year"`
	Month       int32          `db:"month"`
	TotalValue  pgtype.Numeric `db:"total_value"`
	TotalOrders int64          `db:"total_orders"`
}

type lowStockRow struct {
	ID    int64   `db:"id"`
	Name  string  `db:"name"`
	SKU   *string `db:"sku"`
	Stock int32   `db:"stock"`
	Unit  *string `db:"unit"`
}

type dashboardRepository struct {
	db db.DB
}

func NewDashboardRepository(db db.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r dashboardRepository) WithDB(db db.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r dashboardRepository) SalesByMonth(ctx context.Context) ([]model.MonthlySales, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			EXTRACT(YEAR FROM created_at)::int  AS year,
			EXTRACT(MONTH FROM created_at)::int AS month,
			SUM(value)                          AS total_value,
			COUNT(id)                           AS total_orders
		FROM orders
		GROUP BY 1, 2
		ORDER BY 1, 2`)
	if err != nil {
		return nil, fmt.Errorf("query sales by month: %w", err)
	}

	sales, err := pgx.CollectRows(rows, pgx.RowToStructByName[salesRow])
	if err != nil {
		return nil, fmt.Errorf("collect sales by month: %w", err)
	}

	result := make([]model.MonthlySales, 0, len(sales))
	for _, s := range sales {
		total, err := fromNumeric(s.TotalValue)
		if err != nil {
			return nil, fmt.Errorf("sales %d-%02d total: %w", s.Year, s.Month, err)
		}
		result = append(result, model.MonthlySales{
			Year:        int(s.Year),
			Month:       int(s.Month),
			TotalValue:  total,
			TotalOrders: int(s.TotalOrders),
		})
	}

	return result, nil
}

func (r dashboardRepository) LowStockProducts(ctx context.Context, threshold int) ([]model.LowStockProduct, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, sku, stock, unit
		FROM products
		WHERE stock <= @threshold
		ORDER BY stock, name`, pgx.NamedArgs{"threshold": threshold})
	if err != nil {
		return nil, fmt.Errorf("query low stock products: %w", err)
	}

	lowStock, err := pgx.CollectRows(rows, pgx.RowToStructByName[lowStockRow])
	if err != nil {
		return nil, fmt.Errorf("collect low stock products: %w", err)
	}

	result := make([]model.LowStockProduct, 0, len(lowStock))
	for _, p := range lowStock {
		result = append(result, model.LowStockProduct{
			ID:    p.ID,
			Name:  p.Name,
			SKU:   p.SKU,
			Stock: int(p.Stock),
			Unit:  p.Unit,
		})
	}

	return result, nil
}

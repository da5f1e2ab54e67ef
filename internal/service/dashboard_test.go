package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
)

func TestDashboardService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should label monthly sales", func(t *testing.T) {
		repo := &fakeDashboardRepo{sales: []model.MonthlySales{
			{Year: 2023, Month: 12, TotalValue: decimal.NewFromInt(100), TotalOrders: 2},
			{Year: 2024, Month: 1, TotalValue: decimal.NewFromInt(50), TotalOrders: 1},
		}}
		svc := service.NewDashboardService(repo, 10)

		sales, err := svc.SalesByMonth(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, "2023-12", sales[0].MonthYear)
		assert.Equal(t, "Dec/23", sales[0].Label)
		assert.Equal(t, "2024-01", sales[1].MonthYear)
		assert.Equal(t, "Jan/24", sales[1].Label)
	})

	t.Run("Should query low stock with the configured threshold", func(t *testing.T) {
		repo := &fakeDashboardRepo{lowStock: []model.LowStockProduct{{ID: 1, Name: "Chapa", Stock: 2}}}
		svc := service.NewDashboardService(repo, 7)

		products, err := svc.LowStockProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, 7, repo.lastThreshold)
	})
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
)

type DashboardService interface {
	SalesByMonth(ctx context.Context) ([]model.MonthlySales, error)
	LowStockProducts(ctx context.Context) ([]model.LowStockProduct, error)
}

type dashboardService struct {
	dashboardRepo     repository.DashboardRepository
	lowStockThreshold int
}

func NewDashboardService(dashboardRepo repository.DashboardRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{
		dashboardRepo:     dashboardRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *dashboardService) SalesByMonth(ctx context.Context) ([]model.MonthlySales, error) {
	sales, err := s.dashboardRepo.SalesByMonth(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard repository sales by month: %w", err)
	}

	for i := range sales {
		sales[i].MonthYear = fmt.Sprintf("%04d-%02d", sales[i].Year, sales[i].Month)
		sales[i].Label = monthLabel(sales[i].Year, sales[i].Month)
	}

	return sales, nil
}

func (s *dashboardService) LowStockProducts(ctx context.Context) ([]model.LowStockProduct, error) {
	products, err := s.dashboardRepo.LowStockProducts(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("dashboard repository low stock products: %w", err)
	}

	return products, nil
}

// monthLabel renders "Jan/24".
func monthLabel(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("Jan/06")
}

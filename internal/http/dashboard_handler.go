package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/bizdesk/internal/service"
)

type dashboardHandler struct {
	dashboardSvc service.DashboardService
}

func (h *dashboardHandler) SalesByMonth(w http.ResponseWriter, r *http.Request) error {
	sales, err := h.dashboardSvc.SalesByMonth(r.Context())
	if err != nil {
		return fmt.Errorf("dashboard service sales by month: %w", err)
	}

	return writeJSON(w, http.StatusOK, sales)
}

func (h *dashboardHandler) LowStockProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.dashboardSvc.LowStockProducts(r.Context())
	if err != nil {
		return fmt.Errorf("dashboard service low stock products: %w", err)
	}

	return writeJSON(w, http.StatusOK, products)
}

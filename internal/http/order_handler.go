package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/bizdesk/internal/service"
)

type createOrderRequest struct {
	OrderNumber  string   `json:"order_number" validate:"required,notblank,max=50"`
	ClientID     int64    `json:"client_id" validate:"required,gt=0"`
	Material     string   `json:"material" validate:"required,notblank,max=255"`
	Thickness    string   `json:"thickness" validate:"required,notblank,max=50"`
	Width        float64  `json:"width" validate:"gt=0"`
	Length       float64  `json:"length" validate:"gt=0"`
	Quantity     int      `json:"quantity" validate:"gt=0"`
	Observations *string  `json:"observations"`
	Value        *Decimal `json:"value" validate:"required"`
	Status       *string  `json:"status" validate:"omitempty,max=50"`
}

type updateOrderRequest struct {
	OrderNumber  *string  `json:"order_number" validate:"omitempty,max=50"`
	ClientID     *int64   `json:"client_id" validate:"omitempty,gt=0"`
	Material     *string  `json:"material" validate:"omitempty,max=255"`
	Thickness    *string  `json:"thickness" validate:"omitempty,max=50"`
	Width        *float64 `json:"width" validate:"omitempty,gt=0"`
	Length       *float64 `json:"length" validate:"omitempty,gt=0"`
	Quantity     *int     `json:"quantity" validate:"omitempty,gt=0"`
	Observations *string  `json:"observations"`
	Value        *Decimal `json:"value"`
	Status       *string  `json:"status" validate:"omitempty,max=50"`
}

type orderHandler struct {
	*Service
	orderSvc service.OrderService
}

func (h *orderHandler) ListOrders(w http.ResponseWriter, r *http.Request) error {
	orders, err := h.orderSvc.ListOrders(r.Context())
	if err != nil {
		return fmt.Errorf("order service list orders: %w", err)
	}

	return writeJSON(w, http.StatusOK, orders)
}

func (h *orderHandler) GetOrder(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	order, err := h.orderSvc.GetOrder(r.Context(), id)
	if err != nil {
		return fmt.Errorf("order service get order: %w", err)
	}

	return writeJSON(w, http.StatusOK, order)
}

func (h *orderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) error {
	var req createOrderRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}

	order, err := h.orderSvc.CreateOrder(r.Context(), service.CreateOrderParams{
		OrderNumber:  req.OrderNumber,
		ClientID:     req.ClientID,
		Material:     req.Material,
		Thickness:    req.Thickness,
		Width:        req.Width,
		Length:       req.Length,
		Quantity:     req.Quantity,
		Observations: req.Observations,
		Value:        req.Value.Decimal,
		Status:       req.Status,
	})
	if err != nil {
		return fmt.Errorf("order service create order: %w", err)
	}

	return writeJSON(w, http.StatusCreated, order)
}

func (h *orderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}
	for field, v := range map[string]*string{
		"order_number": req.OrderNumber,
		"material":     req.Material,
		"thickness":    req.Thickness,
		"status":       req.Status,
	} {
		if err := requireNonBlank(field, v); err != nil {
			return err
		}
	}

	order, err := h.orderSvc.UpdateOrder(r.Context(), id, service.UpdateOrderParams{
		OrderNumber:  req.OrderNumber,
		ClientID:     req.ClientID,
		Material:     req.Material,
		Thickness:    req.Thickness,
		Width:        req.Width,
		Length:       req.Length,
		Quantity:     req.Quantity,
		Observations: req.Observations,
		Value:        decimalPtr(req.Value),
		Status:       req.Status,
	})
	if err != nil {
		return fmt.Errorf("order service update order: %w", err)
	}

	return writeJSON(w, http.StatusOK, order)
}

func (h *orderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.orderSvc.DeleteOrder(r.Context(), id); err != nil {
		return fmt.Errorf("order service delete order: %w", err)
	}

	return writeJSON(w, http.StatusOK, messageResponse{Message: "order deleted"})
}

func (h *orderHandler) OrderPDF(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	exp, err := h.orderSvc.OrderPDF(r.Context(), id)
	if err != nil {
		return fmt.Errorf("order service order pdf: %w", err)
	}

	return writeFile(w, exp)
}

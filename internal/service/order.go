package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/config"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/pdf"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type CreateOrderParams struct {
	OrderNumber  string
	ClientID     int64
	Material     string
	Thickness    string
	Width        float64
	Length       float64
	Quantity     int
	Observations *string
	Value        decimal.Decimal
	// Status defaults to model.OrderStatusWaiting when nil.
	Status *string
}

type UpdateOrderParams struct {
	OrderNumber  *string
	ClientID     *int64
	Material     *string
	Thickness    *string
	Width        *float64
	Length       *float64
	Quantity     *int
	Observations *string
	Value        *decimal.Decimal
	Status       *string
}

type OrderService interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id int64) (model.Order, error)
	CreateOrder(ctx context.Context, params CreateOrderParams) (model.Order, error)
	UpdateOrder(ctx context.Context, id int64, params UpdateOrderParams) (model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	// OrderPDF renders the printable order sheet.
	OrderPDF(ctx context.Context, id int64) (Export, error)
}

type orderService struct {
	db         db.DB
	company    config.Company
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
}

func NewOrderService(
	db db.DB,
	company config.Company,
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
) OrderService {
	return &orderService{
		db:         db,
		company:    company,
		orderRepo:  orderRepo,
		clientRepo: clientRepo,
	}
}

func (s *orderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("order repository list orders: %w", err)
	}

	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	order, err := s.orderRepo.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, orderError(err, "order repository get order")
	}

	return order, nil
}

func (s *orderService) CreateOrder(ctx context.Context, params CreateOrderParams) (model.Order, error) {
	status := model.OrderStatusWaiting
	if params.Status != nil && *params.Status != "" {
		status = *params.Status
	}

	var order model.Order
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if _, err := s.clientRepo.WithDB(tx).GetClient(ctx, params.ClientID); err != nil {
			return clientError(err, "client repository get client")
		}

		var err error
		order, err = s.orderRepo.WithDB(tx).CreateOrder(ctx, model.Order{
			OrderNumber:  params.OrderNumber,
			ClientID:     params.ClientID,
			Material:     params.Material,
			Thickness:    params.Thickness,
			Width:        params.Width,
			Length:       params.Length,
			Quantity:     params.Quantity,
			Observations: normalizeText(params.Observations),
			Value:        params.Value,
			Status:       status,
		})
		if err != nil {
			return orderError(err, "order repository create order")
		}

		return nil
	}); err != nil {
		return model.Order{}, err
	}

	return order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id int64, params UpdateOrderParams) (model.Order, error) {
	var updated model.Order
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		repo := s.orderRepo.WithDB(tx)

		order, err := repo.GetOrder(ctx, id)
		if err != nil {
			return orderError(err, "order repository get order")
		}

		if params.ClientID != nil && *params.ClientID != order.ClientID {
			if _, err := s.clientRepo.WithDB(tx).GetClient(ctx, *params.ClientID); err != nil {
				return clientError(err, "client repository get client")
			}
			order.ClientID = *params.ClientID
		}
		setIf(&order.OrderNumber, params.OrderNumber)
		setIf(&order.Material, params.Material)
		setIf(&order.Thickness, params.Thickness)
		setIf(&order.Width, params.Width)
		setIf(&order.Length, params.Length)
		setIf(&order.Quantity, params.Quantity)
		setIf(&order.Value, params.Value)
		setIf(&order.Status, params.Status)
		applyText(&order.Observations, params.Observations)

		updated, err = repo.UpdateOrder(ctx, order)
		if err != nil {
			return orderError(err, "order repository update order")
		}

		return nil
	}); err != nil {
		return model.Order{}, err
	}

	return updated, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		return orderError(err, "order repository delete order")
	}

	return nil
}

func (s *orderService) OrderPDF(ctx context.Context, id int64) (Export, error) {
	ctx, span := tracer.Start(ctx, "OrderService.OrderPDF",
		trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.orderRepo.GetOrder(ctx, id)
	if err != nil {
		return Export{}, orderError(err, "order repository get order")
	}

	client, err := s.clientRepo.GetClient(ctx, order.ClientID)
	if err != nil {
		return Export{}, clientError(err, "client repository get client")
	}

	var buf bytes.Buffer
	if err := pdf.RenderOrder(&buf, s.company, order, client.Name); err != nil {
		return Export{}, fmt.Errorf("render order pdf: %w", err)
	}

	return Export{
		FileName:    fmt.Sprintf("pedido_%s.pdf", order.OrderNumber),
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}

func orderError(err error, op string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return apperr.OrderNotFoundErr.WrapParent(err)
	case db.IsUniqueViolation(err):
		return apperr.OrderConflictErr.WrapParent(err)
	case db.IsForeignKeyViolation(err):
		return apperr.ClientNotFoundErr.WrapParent(err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

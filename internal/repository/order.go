package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type OrderRepository interface {
	WithDB(db db.DB) OrderRepository
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id int64) (model.Order, error)
	CreateOrder(ctx context.Context, order model.Order) (model.Order, error)
	UpdateOrder(ctx context.Context, order model.Order) (model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

const orderColumns = `id, order_number, client_id, material, thickness, width, length, quantity, observations, value, status, created_at`

type orderRow struct {
	ID           int64          `db:"id"`
	OrderNumber  string         `db:"order_number"`
	ClientID     int64          `db:"client_id"`
	Material     string         `db:"material"`
	Thickness    string         `db:"thickness"`
	Width        float64        `db:"width"`
	Length       float64        `db:"length"`
	Quantity     int32          `db:"quantity"`
	Observations *string        `db:"observations"`
	Value        pgtype.Numeric `db:"value"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r orderRow) toModel() (model.Order, error) {
	value, err := fromNumeric(r.Value)
	if err != nil {
		return model.Order{}, fmt.Errorf("order %d value: %w", r.ID, err)
	}

	return model.Order{
		ID:           r.ID,
		OrderNumber:  r.OrderNumber,
		ClientID:     r.ClientID,
		Material:     r.Material,
		Thickness:    r.Thickness,
		Width:        r.Width,
		Length:       r.Length,
		Quantity:     int(r.Quantity),
		Observations: r.Observations,
		Value:        value,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}, nil
}

type orderRepository struct {
	db db.DB
}

func NewOrderRepository(db db.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r orderRepository) WithDB(db db.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r orderRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	orderRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[orderRow])
	if err != nil {
		return nil, fmt.Errorf("collect orders: %w", err)
	}

	orders := make([]model.Order, 0, len(orderRows))
	for _, row := range orderRows {
		order, err := row.toModel()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r orderRepository) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Order{}, fmt.Errorf("query order: %w", err)
	}

	return collectOrder(rows)
}

func (r orderRepository) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.Status == "" {
		order.Status = model.OrderStatusWaiting
	}

	rows, err := r.db.Query(ctx, `
		INSERT INTO orders (order_number, client_id, material, thickness, width, length, quantity, observations, value, status, created_at)
		VALUES (@order_number, @client_id, @material, @thickness, @width, @length, @quantity, @observations, @value, @status, @created_at)
		RETURNING `+orderColumns, orderArgs(order))
	if err != nil {
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}

	return collectOrder(rows)
}

func (r orderRepository) UpdateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE orders
		SET
			order_number = @order_number,
			client_id    = @client_id,
			material     = @material,
			thickness    = @thickness,
			width        = @width,
			length       = @length,
			quantity     = @quantity,
			observations = @observations,
			value        = @value,
			status       = @status
		WHERE id = @id
		RETURNING `+orderColumns, orderArgs(order))
	if err != nil {
		return model.Order{}, fmt.Errorf("update order: %w", err)
	}

	return collectOrder(rows)
}

func (r orderRepository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	return nil
}

func collectOrder(rows pgx.Rows) (model.Order, error) {
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[orderRow])
	if err != nil {
		if db.IsNoRows(err) {
			return model.Order{}, db.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("collect order: %w", err)
	}

	return row.toModel()
}

func orderArgs(o model.Order) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":           o.ID,
		"order_number": o.OrderNumber,
		"client_id":    o.ClientID,
		"material":     o.Material,
		"thickness":    o.Thickness,
		"width":        o.Width,
		"length":       o.Length,
		"quantity":     o.Quantity,
		"observations": o.Observations,
		"value":        toNumeric(o.Value),
		"status":       o.Status,
		"created_at":   o.CreatedAt,
	}
}

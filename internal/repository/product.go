package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	GetProductByName(ctx context.Context, name string) (model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateProducts(ctx context.Context, products []model.Product) (int64, error)
	UpdateProducts(ctx context.Context, products []model.Product) error
}

const productColumns = `id, name, description, price, unit, sku, stock, created_at`

type productRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description *string        `db:"description"`
	Price       pgtype.Numeric `db:"price"`
	Unit        *string        `db:"unit"`
	SKU         *string        `db:"sku"`
	Stock       int32          `db:"stock"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r productRow) toModel() (model.Product, error) {
	price, err := fromNumeric(r.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("product %d price: %w", r.ID, err)
	}

	return model.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Unit:        r.Unit,
		SKU:         r.SKU,
		Stock:       int(r.Stock),
		CreatedAt:   r.CreatedAt,
	}, nil
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		product, err := row.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

func (r productRepository) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r productRepository) GetProductByName(ctx context.Context, name string) (model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE name = @name`, pgx.NamedArgs{"name": name})
}

func (r productRepository) getOne(ctx context.Context, query string, args pgx.NamedArgs) (model.Product, error) {
	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if db.IsNoRows(err) {
			return model.Product{}, db.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return row.toModel()
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}

	args, err := productArgs(product)
	if err != nil {
		return model.Product{}, err
	}

	rows, err := r.db.Query(ctx, `
		INSERT INTO products (name, description, price, unit, sku, stock, created_at)
		VALUES (@name, @description, @price, @unit, @sku, @stock, @created_at)
		RETURNING `+productColumns, args)
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return row.toModel()
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	args, err := productArgs(product)
	if err != nil {
		return model.Product{}, err
	}

	rows, err := r.db.Query(ctx, updateProductSQL+` RETURNING `+productColumns, args)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if db.IsNoRows(err) {
			return model.Product{}, db.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	return row.toModel()
}

func (r productRepository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	return nil
}

func (r productRepository) CreateProducts(ctx context.Context, products []model.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	now := time.Now()
	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"products"},
		[]string{"name", "description", "price", "unit", "sku", "stock", "created_at"},
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			p := products[i]
			stock, err := stockValue(p.Stock)
			if err != nil {
				return nil, err
			}
			createdAt := p.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			return []any{p.Name, p.Description, toNumeric(p.Price), p.Unit, p.SKU, stock, createdAt}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy products: %w", err)
	}

	return n, nil
}

func (r productRepository) UpdateProducts(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		args, err := productArgs(p)
		if err != nil {
			return err
		}
		batch.Queue(updateProductSQL, args)
	}

	results := r.db.SendBatch(ctx, batch)
	for _, p := range products {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("update product %d: %w", p.ID, err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return nil
}

const updateProductSQL = `
	UPDATE products
	SET
		name        = @name,
		description = @description,
		price       = @price,
		unit        = @unit,
		sku         = @sku,
		stock       = @stock,
		created_at  = @created_at
	WHERE id = @id`

func productArgs(p model.Product) (pgx.NamedArgs, error) {
	stock, err := stockValue(p.Stock)
	if err != nil {
		return nil, err
	}

	return pgx.NamedArgs{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       toNumeric(p.Price),
		"unit":        p.Unit,
		"sku":         p.SKU,
		"stock":       stock,
		"created_at":  p.CreatedAt,
	}, nil
}

func stockValue(stock int) (int32, error) {
	if stock > math.MaxInt32 || stock < math.MinInt32 {
		return 0, fmt.Errorf("stock out of range: %d", stock)
	}
	return int32(stock), nil
}

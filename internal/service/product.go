package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/csvimport"
	"github.com/tuanvumaihuynh/bizdesk/internal/event"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type CreateProductParams struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Unit        *string
	SKU         *string
	Stock       int
}

// UpdateProductParams carries a partial update. Nil fields keep their stored value and an
// empty string clears an optional field.
type UpdateProductParams struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Unit        *string
	SKU         *string
	Stock       *int
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ExportProducts(ctx context.Context, format ExportFormat) (Export, error)
	ImportProducts(ctx context.Context, params ImportParams) (csvimport.Result, error)
}

type productService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	clock         func() time.Time
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		clock:         time.Now,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, productError(err, "product repository get product")
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if params.Price.IsNegative() {
		return model.Product{}, apperr.ValidationErr.WithMsg("price must not be negative")
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		var err error
		product, err = s.productRepo.
			WithDB(tx).
			CreateProduct(ctx, model.Product{
				Name:        params.Name,
				Description: normalizeText(params.Description),
				Price:       params.Price,
				Unit:        normalizeText(params.Unit),
				SKU:         normalizeText(params.SKU),
				Stock:       params.Stock,
			})
		if err != nil {
			return productError(err, "product repository create product")
		}

		key := strconv.FormatInt(product.ID, 10)
		return enqueueEvent(ctx, s.outboxMsgRepo.WithDB(tx), event.TopicProductCreated, &key, event.ProductCreatedEvent{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			Price:     product.Price,
			Stock:     product.Stock,
		})
	}); err != nil {
		return model.Product{}, err
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) (model.Product, error) {
	if params.Price != nil && params.Price.IsNegative() {
		return model.Product{}, apperr.ValidationErr.WithMsg("price must not be negative")
	}

	var updated model.Product
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		repo := s.productRepo.WithDB(tx)

		product, err := repo.GetProduct(ctx, id)
		if err != nil {
			return productError(err, "product repository get product")
		}

		if params.Name != nil {
			product.Name = *params.Name
		}
		if params.Price != nil {
			product.Price = *params.Price
		}
		if params.Stock != nil {
			product.Stock = *params.Stock
		}
		applyText(&product.Description, params.Description)
		applyText(&product.Unit, params.Unit)
		applyText(&product.SKU, params.SKU)

		updated, err = repo.UpdateProduct(ctx, product)
		if err != nil {
			return productError(err, "product repository update product")
		}

		return nil
	}); err != nil {
		return model.Product{}, err
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return productError(err, "product repository delete product")
	}

	return nil
}

func (s *productService) ExportProducts(ctx context.Context, format ExportFormat) (Export, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("product repository list products: %w", err)
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, csvimport.ProductRow(p))
	}

	return buildExport(format, "produtos_exportados", "Produtos", s.clock(), csvimport.ProductColumns, rows)
}

func (s *productService) ImportProducts(ctx context.Context, params ImportParams) (csvimport.Result, error) {
	store := &importStore[model.Product]{
		db:            s.db,
		outboxMsgRepo: s.outboxMsgRepo,
		fileName:      params.FileName,
		findByID:      s.productRepo.GetProduct,
		findByName:    s.productRepo.GetProductByName,
		commit: func(ctx context.Context, tx db.DB, batch csvimport.Batch[model.Product]) error {
			repo := s.productRepo.WithDB(tx)
			if err := repo.UpdateProducts(ctx, batch.Updates); err != nil {
				return fmt.Errorf("product repository update products: %w", err)
			}
			if _, err := repo.CreateProducts(ctx, batch.Creates); err != nil {
				return fmt.Errorf("product repository create products: %w", err)
			}
			return nil
		},
	}

	return runImport(ctx, csvimport.ProductSchema, store, params)
}

func productError(err error, op string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return apperr.ProductNotFoundErr.WrapParent(err)
	case db.IsUniqueViolation(err):
		return apperr.ProductConflictErr.WrapParent(err)
	case db.IsCheckViolation(err):
		return apperr.ValidationErr.WithMsg("price must not be negative").WrapParent(err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

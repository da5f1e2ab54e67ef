package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/bizdesk/internal/service"
)

type createProductRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=255"`
	Description *string  `json:"description"`
	Price       *Decimal `json:"price" validate:"required"`
	Unit        *string  `json:"unit" validate:"omitempty,max=20"`
	SKU         *string  `json:"sku" validate:"omitempty,max=100"`
	Stock       int      `json:"stock" validate:"gte=0"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *Decimal `json:"price"`
	Unit        *string  `json:"unit" validate:"omitempty,max=20"`
	SKU         *string  `json:"sku" validate:"omitempty,max=100"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
}

type productHandler struct {
	*Service
	productSvc service.ProductService
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.productSvc.ListProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	return writeJSON(w, http.StatusOK, products)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req createProductRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Decimal,
		Unit:        req.Unit,
		SKU:         req.SKU,
		Stock:       req.Stock,
	})
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, product)
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}
	if err := requireNonBlank("name", req.Name); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, service.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       decimalPtr(req.Price),
		Unit:        req.Unit,
		SKU:         req.SKU,
		Stock:       req.Stock,
	})
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	return writeJSON(w, http.StatusOK, messageResponse{Message: "product deleted"})
}

func (h *productHandler) ExportProducts(w http.ResponseWriter, r *http.Request) error {
	format, err := service.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		return err
	}

	exp, err := h.productSvc.ExportProducts(r.Context(), format)
	if err != nil {
		return fmt.Errorf("product service export products: %w", err)
	}

	return writeFile(w, exp)
}

func (h *productHandler) ImportProducts(w http.ResponseWriter, r *http.Request) error {
	file, fileName, err := h.readUpload(w, r)
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := h.productSvc.ImportProducts(r.Context(), service.ImportParams{FileName: fileName, File: file})
	if err != nil {
		return fmt.Errorf("product service import products: %w", err)
	}

	return h.writeImportResult(w, res)
}

package csvimport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/pkg/ptr"
)

const (
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldUnit        = "unit"
	FieldSKU         = "sku"
	FieldStock       = "stock"
)

// ProductColumns are the product import and export headers, in export order.
var ProductColumns = []Column{
	{Header: "ID", Field: FieldID},
	{Header: "Nome", Field: FieldName},
	{Header: "Descrição", Field: FieldDescription},
	{Header: "Preço", Field: FieldPrice},
	{Header: "Unidade", Field: FieldUnit},
	{Header: "SKU", Field: FieldSKU},
	{Header: "Estoque", Field: FieldStock},
	{Header: "Criado Em", Field: FieldCreatedAt},
}

var errNegativePrice = errors.New("price must not be negative")

// ProductRecord is a normalized product row. Price and stock are always set.
type ProductRecord struct {
	ID          string
	Name        string
	Description *string
	Price       decimal.Decimal
	Unit        *string
	SKU         *string
	Stock       int
	CreatedAt   *time.Time
}

func (r ProductRecord) Identity() Identity {
	return Identity{ID: r.ID, Name: r.Name}
}

// ParseDecimal parses a decimal that may use a comma as separator, e.g. "10,50".
func ParseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

// ParsePrice is ParseDecimal restricted to non-negative values.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errNegativePrice
	}
	return d, nil
}

func NormalizeProduct(f Fields) (ProductRecord, error) {
	rawPrice, ok := f.NonEmpty(FieldPrice)
	if !ok {
		return ProductRecord{}, errors.New("price is required and not provided")
	}
	price, err := ParsePrice(rawPrice)
	if errors.Is(err, errNegativePrice) {
		return ProductRecord{}, err
	}
	if err != nil {
		return ProductRecord{}, fmt.Errorf("invalid price format '%s'", rawPrice)
	}

	stock := 0
	if rawStock, ok := f.NonEmpty(FieldStock); ok {
		stock, err = strconv.Atoi(strings.TrimSpace(rawStock))
		if err != nil {
			return ProductRecord{}, fmt.Errorf("invalid stock format '%s'", rawStock)
		}
	}

	createdAt, err := parseCreatedAt(f)
	if err != nil {
		return ProductRecord{}, err
	}

	id, _ := f.Lookup(FieldID)
	name, _ := f.Lookup(FieldName)

	return ProductRecord{
		ID:          id,
		Name:        name,
		Description: f.Optional(FieldDescription),
		Price:       price,
		Unit:        f.Optional(FieldUnit),
		SKU:         f.Optional(FieldSKU),
		Stock:       stock,
		CreatedAt:   createdAt,
	}, nil
}

func MergeProduct(p model.Product, r ProductRecord) model.Product {
	if r.Name != "" {
		p.Name = r.Name
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	p.Price = r.Price
	if r.Unit != nil {
		p.Unit = r.Unit
	}
	if r.SKU != nil {
		p.SKU = r.SKU
	}
	p.Stock = r.Stock
	if r.CreatedAt != nil {
		p.CreatedAt = *r.CreatedAt
	}
	return p
}

func NewProduct(r ProductRecord) model.Product {
	return MergeProduct(model.Product{}, r)
}

// ProductSchema imports products.
var ProductSchema = Schema[ProductRecord, model.Product]{
	Singular:  "product",
	Plural:    "products",
	Columns:   ProductColumns,
	Normalize: NormalizeProduct,
	Merge:     MergeProduct,
	Create:    NewProduct,
	EntityID:  func(p model.Product) int64 { return p.ID },
}

// ProductRow renders a product in ProductColumns order.
func ProductRow(p model.Product) []string {
	return []string{
		formatID(p.ID),
		p.Name,
		ptr.Deref(p.Description),
		p.Price.String(),
		ptr.Deref(p.Unit),
		ptr.Deref(p.SKU),
		strconv.Itoa(p.Stock),
		FormatTimestamp(p.CreatedAt),
	}
}

package event

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

const TopicProductCreated = "product.created"

type ProductCreatedEvent struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	SKU       *string         `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling product created event",
		slog.Int64("product_id", ev.ProductID),
		slog.String("name", ev.Name),
		slog.Int("stock", ev.Stock),
	)

	if ev.Stock <= s.lowStockThreshold {
		s.logger.WarnContext(ctx, "new product is low on stock",
			slog.Int64("product_id", ev.ProductID),
			slog.Int("stock", ev.Stock),
			slog.Int("threshold", s.lowStockThreshold),
		)
	}

	return nil
}

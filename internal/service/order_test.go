package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/config"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db/dbtest"
	"github.com/tuanvumaihuynh/bizdesk/pkg/ptr"
	"github.com/tuanvumaihuynh/bizdesk/pkg/zerror"
)

func TestOrderService(t *testing.T) {
	ctx := context.Background()

	setup := func() (service.OrderService, *fakeOrderRepo) {
		clients := newFakeClientRepo(model.Client{Name: "Acme"})
		orders := newFakeOrderRepo()
		company := config.Company{Name: "Metalúrgica Exemplo"}
		return service.NewOrderService(&dbtest.TxDB{}, company, orders, clients), orders
	}

	params := service.CreateOrderParams{
		OrderNumber: "1001",
		ClientID:    1,
		Material:    "Aço",
		Thickness:   "2mm",
		Width:       1.5,
		Length:      3,
		Quantity:    10,
		Value:       decimal.RequireFromString("1234.56"),
	}

	t.Run("Should create an order waiting by default", func(t *testing.T) {
		svc, _ := setup()

		o, err := svc.CreateOrder(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusWaiting, o.Status)
		assert.Equal(t, int64(1), o.ClientID)
	})

	t.Run("Should reject an unknown client", func(t *testing.T) {
		svc, orders := setup()

		p := params
		p.ClientID = 99
		_, err := svc.CreateOrder(ctx, p)
		assert.True(t, zerror.HasCode(err, apperr.ClientNotFoundCode))
		assert.Empty(t, orders.rows)
	})

	t.Run("Should update only the given fields", func(t *testing.T) {
		svc, _ := setup()
		_, err := svc.CreateOrder(ctx, params)
		require.NoError(t, err)

		o, err := svc.UpdateOrder(ctx, 1, service.UpdateOrderParams{Status: ptr.New("Concluído")})
		require.NoError(t, err)
		assert.Equal(t, "Concluído", o.Status)
		assert.Equal(t, "1001", o.OrderNumber)
		assert.True(t, o.Value.Equal(params.Value))
	})

	t.Run("Should render the order pdf", func(t *testing.T) {
		svc, orders := setup()
		_, err := svc.CreateOrder(ctx, params)
		require.NoError(t, err)
		o := orders.rows[1]
		o.CreatedAt = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
		orders.rows[1] = o

		exp, err := svc.OrderPDF(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "pedido_1001.pdf", exp.FileName)
		assert.Equal(t, "application/pdf", exp.ContentType)
		assert.Equal(t, "%PDF", string(exp.Body[:4]))
	})

	t.Run("Should return not found for unknown orders", func(t *testing.T) {
		svc, _ := setup()

		_, err := svc.OrderPDF(ctx, 5)
		assert.True(t, zerror.HasCode(err, apperr.OrderNotFoundCode))

		err = svc.DeleteOrder(ctx, 5)
		assert.True(t, zerror.HasCode(err, apperr.OrderNotFoundCode))
	})
}

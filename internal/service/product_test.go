package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/event"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db/dbtest"
	"github.com/tuanvumaihuynh/bizdesk/pkg/ptr"
	"github.com/tuanvumaihuynh/bizdesk/pkg/zerror"
)

func TestProductService(t *testing.T) {
	ctx := context.Background()

	setup := func(products ...model.Product) (service.ProductService, *fakeProductRepo, *fakeOutboxRepo, *dbtest.TxDB) {
		tx := &dbtest.TxDB{}
		repo := newFakeProductRepo(products...)
		outbox := &fakeOutboxRepo{}
		return service.NewProductService(tx, repo, outbox), repo, outbox, tx
	}

	t.Run("Should enqueue product.created in the create transaction", func(t *testing.T) {
		svc, _, outbox, tx := setup()

		p, err := svc.CreateProduct(ctx, service.CreateProductParams{
			Name:  "Chapa",
			Price: decimal.RequireFromString("10.50"),
			SKU:   ptr.New("CH-1"),
			Stock: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, tx.Commits)

		require.Len(t, outbox.msgs, 1)
		msg := outbox.msgs[0]
		assert.Equal(t, event.TopicProductCreated, msg.Topic)
		require.NotNil(t, msg.PartitionKey)
		assert.Equal(t, "1", *msg.PartitionKey)

		var ev event.ProductCreatedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, p.ID, ev.ProductID)
		assert.Equal(t, "Chapa", ev.Name)
		assert.True(t, ev.Price.Equal(decimal.RequireFromString("10.5")))
		assert.Equal(t, 3, ev.Stock)
	})

	t.Run("Should reject negative prices", func(t *testing.T) {
		svc, _, outbox, _ := setup(model.Product{Name: "Chapa"})

		_, err := svc.CreateProduct(ctx, service.CreateProductParams{Name: "X", Price: decimal.NewFromInt(-1)})
		assert.True(t, zerror.HasCode(err, apperr.ValidationErrorCode))

		_, err = svc.UpdateProduct(ctx, 1, service.UpdateProductParams{Price: ptr.New(decimal.NewFromInt(-1))})
		assert.True(t, zerror.HasCode(err, apperr.ValidationErrorCode))
		assert.Empty(t, outbox.msgs)
	})

	t.Run("Should keep fields that are not part of the update", func(t *testing.T) {
		svc, _, _, _ := setup(model.Product{Name: "Chapa", Price: decimal.NewFromInt(5), Stock: 8, Unit: ptr.New("m2")})

		p, err := svc.UpdateProduct(ctx, 1, service.UpdateProductParams{Stock: ptr.New(2)})
		require.NoError(t, err)
		assert.Equal(t, "Chapa", p.Name)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, 2, p.Stock)
		assert.Equal(t, "m2", *p.Unit)
	})

	t.Run("Should import prices written with a decimal comma", func(t *testing.T) {
		svc, repo, outbox, _ := setup(model.Product{Name: "Chapa", Price: decimal.NewFromInt(5), Stock: 8})

		csv := "Nome,Preço,Estoque\nChapa,\"12,30\",4\nPerfil,7.5,\nTubo,,1\n"

		res, err := svc.ImportProducts(ctx, service.ImportParams{FileName: "produtos.csv", File: strings.NewReader(csv)})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Created)
		assert.Equal(t, 1, res.Updated)
		assert.Equal(t, []string{"line 4: price is required and not provided"}, res.ErrorMessages())

		chapa, err := repo.GetProduct(ctx, 1)
		require.NoError(t, err)
		assert.True(t, chapa.Price.Equal(decimal.RequireFromString("12.3")))
		assert.Equal(t, 4, chapa.Stock)

		perfil, err := repo.GetProductByName(ctx, "Perfil")
		require.NoError(t, err)
		assert.True(t, perfil.Price.Equal(decimal.RequireFromString("7.5")))
		assert.Equal(t, 0, perfil.Stock)

		require.Len(t, outbox.msgs, 1)
		assert.Equal(t, event.TopicImportCompleted, outbox.msgs[0].Topic)
	})

	t.Run("Should export products as xlsx", func(t *testing.T) {
		svc, _, _, _ := setup(model.Product{Name: "Chapa", Price: decimal.RequireFromString("12.30"), Stock: 4})

		exp, err := svc.ExportProducts(ctx, service.ExportFormatXLSX)
		require.NoError(t, err)
		assert.Regexp(t, `^produtos_exportados_\d{8}_\d{6}\.xlsx$`, exp.FileName)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exp.ContentType)

		f, err := excelize.OpenReader(bytes.NewReader(exp.Body))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Produtos")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"ID", "Nome", "Descrição", "Preço", "Unidade", "SKU", "Estoque", "Criado Em"}, rows[0])
		assert.Equal(t, "Chapa", rows[1][1])
		assert.Equal(t, "12.3", rows[1][3])
	})
}

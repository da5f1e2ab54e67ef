package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/event"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db/dbtest"
	"github.com/tuanvumaihuynh/bizdesk/pkg/ptr"
	"github.com/tuanvumaihuynh/bizdesk/pkg/zerror"
)

func zMsg(t *testing.T, err error) string {
	t.Helper()
	var zErr zerror.ZError
	require.True(t, errors.As(err, &zErr), "expected ZError, got %v", err)
	return zErr.Msg()
}

func TestClientService(t *testing.T) {
	ctx := context.Background()

	setup := func(clients ...model.Client) (service.ClientService, *fakeClientRepo, *fakeOutboxRepo, *dbtest.TxDB) {
		tx := &dbtest.TxDB{}
		repo := newFakeClientRepo(clients...)
		outbox := &fakeOutboxRepo{}
		return service.NewClientService(tx, repo, outbox), repo, outbox, tx
	}

	t.Run("Should normalize empty optional fields on create", func(t *testing.T) {
		svc, _, _, _ := setup()

		c, err := svc.CreateClient(ctx, service.CreateClientParams{
			Name:  "Acme",
			Email: ptr.New(""),
			Phone: ptr.New("123"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
		assert.Nil(t, c.Email)
		assert.Equal(t, "123", *c.Phone)
	})

	t.Run("Should map duplicate names to a conflict", func(t *testing.T) {
		svc, _, _, _ := setup(model.Client{Name: "Acme"})

		_, err := svc.CreateClient(ctx, service.CreateClientParams{Name: "Acme"})
		assert.True(t, zerror.HasCode(err, apperr.ClientConflictCode))
	})

	t.Run("Should return not found for unknown ids", func(t *testing.T) {
		svc, _, _, _ := setup()

		_, err := svc.GetClient(ctx, 42)
		assert.True(t, zerror.HasCode(err, apperr.ClientNotFoundCode))

		err = svc.DeleteClient(ctx, 42)
		assert.True(t, zerror.HasCode(err, apperr.ClientNotFoundCode))
	})

	t.Run("Should apply partial updates", func(t *testing.T) {
		svc, _, _, tx := setup(model.Client{Name: "Acme", Phone: ptr.New("123"), Email: ptr.New("a@acme.com")})

		c, err := svc.UpdateClient(ctx, 1, service.UpdateClientParams{
			Phone: ptr.New("999"),
			Email: ptr.New(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme", c.Name)
		assert.Equal(t, "999", *c.Phone)
		assert.Nil(t, c.Email)
		assert.Equal(t, 1, tx.Commits)
	})

	t.Run("Should roll back an update of a missing client", func(t *testing.T) {
		svc, _, _, tx := setup()

		_, err := svc.UpdateClient(ctx, 7, service.UpdateClientParams{Name: ptr.New("X")})
		assert.True(t, zerror.HasCode(err, apperr.ClientNotFoundCode))
		assert.Equal(t, 1, tx.Rollbacks)
	})

	t.Run("Should import rows and enqueue the completion event", func(t *testing.T) {
		svc, repo, outbox, tx := setup(model.Client{Name: "Acme", Phone: ptr.New("123")})

		csv := "ID,Nome,Email\n1,Acme Updated,acme@x.com\n,Beta,beta@x.com\nabc,Gamma,\n"
		res, err := svc.ImportClients(ctx, service.ImportParams{FileName: "clientes.CSV", File: strings.NewReader(csv)})
		require.NoError(t, err)

		assert.Equal(t, 1, res.Created)
		assert.Equal(t, 1, res.Updated)
		assert.Equal(t, []string{"line 4: invalid ID 'abc'"}, res.ErrorMessages())
		assert.Equal(t, "Import finished. New clients: 1, updated clients: 1. Errors found: 1.", res.Message())

		acme, err := repo.GetClient(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Acme Updated", acme.Name)
		assert.Equal(t, "123", *acme.Phone)
		assert.Equal(t, "acme@x.com", *acme.Email)

		_, err = repo.GetClientByName(ctx, "Beta")
		require.NoError(t, err)

		assert.Equal(t, 1, tx.Commits)
		require.Len(t, outbox.msgs, 1)
		assert.Equal(t, event.TopicImportCompleted, outbox.msgs[0].Topic)

		var ev event.ImportCompletedEvent
		require.NoError(t, json.Unmarshal(outbox.msgs[0].Payload, &ev))
		assert.Equal(t, event.ImportCompletedEvent{
			Entity:    "clients",
			FileName:  "clientes.CSV",
			Created:   1,
			Updated:   1,
			RowErrors: 1,
		}, ev)
	})

	t.Run("Should reject uploads that are not csv", func(t *testing.T) {
		svc, _, outbox, _ := setup()

		_, err := svc.ImportClients(ctx, service.ImportParams{FileName: "clientes.xlsx", File: strings.NewReader("ID,Nome\n")})
		require.True(t, zerror.HasCode(err, apperr.InvalidUploadCode))
		assert.Equal(t, "invalid file format, only .csv files are accepted", zMsg(t, err))

		_, err = svc.ImportClients(ctx, service.ImportParams{})
		require.True(t, zerror.HasCode(err, apperr.InvalidUploadCode))
		assert.Equal(t, "no file selected", zMsg(t, err))
		assert.Empty(t, outbox.msgs)
	})

	t.Run("Should reject an empty file", func(t *testing.T) {
		svc, _, _, _ := setup()

		_, err := svc.ImportClients(ctx, service.ImportParams{FileName: "empty.csv", File: strings.NewReader("")})
		assert.True(t, zerror.HasCode(err, apperr.InvalidUploadCode))
	})

	t.Run("Should report a failed commit without enqueuing the event", func(t *testing.T) {
		svc, repo, outbox, tx := setup(model.Client{Name: "Acme"})
		repo.bulkErr = errors.New("connection reset")

		_, err := svc.ImportClients(ctx, service.ImportParams{FileName: "c.csv", File: strings.NewReader("Nome\nBeta\n")})
		require.True(t, zerror.HasCode(err, apperr.ImportFailedCode))
		assert.Contains(t, zMsg(t, err), "import failed: ")
		assert.Contains(t, zMsg(t, err), "connection reset")
		assert.Equal(t, 1, tx.Rollbacks)
		assert.Empty(t, outbox.msgs)
	})

	t.Run("Should export clients as csv", func(t *testing.T) {
		svc, _, _, _ := setup(model.Client{Name: "Acme", Email: ptr.New("a@acme.com")})

		exp, err := svc.ExportClients(ctx, service.ExportFormatCSV)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^clientes_exportados_\d{8}_\d{6}\.csv$`), exp.FileName)
		assert.Equal(t, "text/csv; charset=utf-8", exp.ContentType)

		lines := strings.Split(strings.TrimSpace(string(exp.Body)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "ID,Nome,Pessoa de Contato,Telefone,Email,Endereço,CNPJ,Observações,Criado Em", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "1,Acme,,,a@acme.com,"))
	})
}

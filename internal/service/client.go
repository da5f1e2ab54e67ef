package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/csvimport"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type CreateClientParams struct {
	Name          string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	CNPJ          *string
	Observations  *string
}

// UpdateClientParams carries a partial update. Nil fields keep their stored value and an
// empty string clears an optional field.
type UpdateClientParams struct {
	Name          *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	CNPJ          *string
	Observations  *string
}

type ImportParams struct {
	FileName string
	File     io.Reader
}

type ClientService interface {
	ListClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, id int64) (model.Client, error)
	CreateClient(ctx context.Context, params CreateClientParams) (model.Client, error)
	UpdateClient(ctx context.Context, id int64, params UpdateClientParams) (model.Client, error)
	DeleteClient(ctx context.Context, id int64) error
	ExportClients(ctx context.Context, format ExportFormat) (Export, error)
	ImportClients(ctx context.Context, params ImportParams) (csvimport.Result, error)
}

type clientService struct {
	db            db.DB
	clientRepo    repository.ClientRepository
	outboxMsgRepo repository.OutboxMsgRepository
	clock         func() time.Time
}

func NewClientService(
	db db.DB,
	clientRepo repository.ClientRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ClientService {
	return &clientService{
		db:            db,
		clientRepo:    clientRepo,
		outboxMsgRepo: outboxMsgRepo,
		clock:         time.Now,
	}
}

func (s *clientService) ListClients(ctx context.Context) ([]model.Client, error) {
	clients, err := s.clientRepo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("client repository list clients: %w", err)
	}

	return clients, nil
}

func (s *clientService) GetClient(ctx context.Context, id int64) (model.Client, error) {
	client, err := s.clientRepo.GetClient(ctx, id)
	if err != nil {
		return model.Client{}, clientError(err, "client repository get client")
	}

	return client, nil
}

func (s *clientService) CreateClient(ctx context.Context, params CreateClientParams) (model.Client, error) {
	client, err := s.clientRepo.CreateClient(ctx, model.Client{
		Name:          params.Name,
		ContactPerson: normalizeText(params.ContactPerson),
		Phone:         normalizeText(params.Phone),
		Email:         normalizeText(params.Email),
		Address:       normalizeText(params.Address),
		CNPJ:          normalizeText(params.CNPJ),
		Observations:  normalizeText(params.Observations),
	})
	if err != nil {
		return model.Client{}, clientError(err, "client repository create client")
	}

	return client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id int64, params UpdateClientParams) (model.Client, error) {
	var updated model.Client
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		repo := s.clientRepo.WithDB(tx)

		client, err := repo.GetClient(ctx, id)
		if err != nil {
			return clientError(err, "client repository get client")
		}

		if params.Name != nil {
			client.Name = *params.Name
		}
		applyText(&client.ContactPerson, params.ContactPerson)
		applyText(&client.Phone, params.Phone)
		applyText(&client.Email, params.Email)
		applyText(&client.Address, params.Address)
		applyText(&client.CNPJ, params.CNPJ)
		applyText(&client.Observations, params.Observations)

		updated, err = repo.UpdateClient(ctx, client)
		if err != nil {
			return clientError(err, "client repository update client")
		}

		return nil
	}); err != nil {
		return model.Client{}, err
	}

	return updated, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id int64) error {
	if err := s.clientRepo.DeleteClient(ctx, id); err != nil {
		return clientError(err, "client repository delete client")
	}

	return nil
}

func (s *clientService) ExportClients(ctx context.Context, format ExportFormat) (Export, error) {
	clients, err := s.clientRepo.ListClients(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("client repository list clients: %w", err)
	}

	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, csvimport.ClientRow(c))
	}

	return buildExport(format, "clientes_exportados", "Clientes", s.clock(), csvimport.ClientColumns, rows)
}

func (s *clientService) ImportClients(ctx context.Context, params ImportParams) (csvimport.Result, error) {
	store := &importStore[model.Client]{
		db:            s.db,
		outboxMsgRepo: s.outboxMsgRepo,
		fileName:      params.FileName,
		findByID:      s.clientRepo.GetClient,
		findByName:    s.clientRepo.GetClientByName,
		commit: func(ctx context.Context, tx db.DB, batch csvimport.Batch[model.Client]) error {
			repo := s.clientRepo.WithDB(tx)
			if err := repo.UpdateClients(ctx, batch.Updates); err != nil {
				return fmt.Errorf("client repository update clients: %w", err)
			}
			if _, err := repo.CreateClients(ctx, batch.Creates); err != nil {
				return fmt.Errorf("client repository create clients: %w", err)
			}
			return nil
		},
	}

	return runImport(ctx, csvimport.ClientSchema, store, params)
}

func clientError(err error, op string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return apperr.ClientNotFoundErr.WrapParent(err)
	case db.IsUniqueViolation(err):
		return apperr.ClientConflictErr.WrapParent(err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// applyText applies a partial update to an optional column.
func applyText(dst **string, v *string) {
	if v == nil {
		return
	}
	*dst = normalizeText(v)
}

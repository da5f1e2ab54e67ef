package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

type ClientRepository interface {
	WithDB(db db.DB) ClientRepository
	ListClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, id int64) (model.Client, error)
	GetClientByName(ctx context.Context, name string) (model.Client, error)
	CreateClient(ctx context.Context, client model.Client) (model.Client, error)
	UpdateClient(ctx context.Context, client model.Client) (model.Client, error)
	DeleteClient(ctx context.Context, id int64) error
	// CreateClients bulk inserts clients with COPY. Ids are assigned by the store.
	CreateClients(ctx context.Context, clients []model.Client) (int64, error)
	// UpdateClients writes every column of the given clients in one round trip.
	UpdateClients(ctx context.Context, clients []model.Client) error
}

const clientColumns = `id, name, contact_person, phone, email, address, cnpj, observations, created_at`

type clientRow struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	ContactPerson *string   `db:"contact_person"`
	Phone         *string   `db:"phone"`
	Email         *string   `db:"email"`
	Address       *string   `db:"address"`
	CNPJ          *string   `db:"cnpj"`
	Observations  *string   `db:"observations"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r clientRow) toModel() model.Client {
	return model.Client(r)
}

type clientRepository struct {
	db db.DB
}

func NewClientRepository(db db.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r clientRepository) WithDB(db db.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r clientRepository) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}

	clientRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[clientRow])
	if err != nil {
		return nil, fmt.Errorf("collect clients: %w", err)
	}

	clients := make([]model.Client, 0, len(clientRows))
	for _, row := range clientRows {
		clients = append(clients, row.toModel())
	}

	return clients, nil
}

func (r clientRepository) GetClient(ctx context.Context, id int64) (model.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r clientRepository) GetClientByName(ctx context.Context, name string) (model.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE name = @name`, pgx.NamedArgs{"name": name})
}

func (r clientRepository) getOne(ctx context.Context, query string, args pgx.NamedArgs) (model.Client, error) {
	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return model.Client{}, fmt.Errorf("query client: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[clientRow])
	if err != nil {
		if db.IsNoRows(err) {
			return model.Client{}, db.ErrNotFound
		}
		return model.Client{}, fmt.Errorf("collect client: %w", err)
	}

	return row.toModel(), nil
}

func (r clientRepository) CreateClient(ctx context.Context, client model.Client) (model.Client, error) {
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(ctx, `
		INSERT INTO clients (name, contact_person, phone, email, address, cnpj, observations, created_at)
		VALUES (@name, @contact_person, @phone, @email, @address, @cnpj, @observations, @created_at)
		RETURNING `+clientColumns, clientArgs(client))
	if err != nil {
		return model.Client{}, fmt.Errorf("insert client: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[clientRow])
	if err != nil {
		return model.Client{}, fmt.Errorf("insert client: %w", err)
	}

	return row.toModel(), nil
}

func (r clientRepository) UpdateClient(ctx context.Context, client model.Client) (model.Client, error) {
	rows, err := r.db.Query(ctx, updateClientSQL+` RETURNING `+clientColumns, clientArgs(client))
	if err != nil {
		return model.Client{}, fmt.Errorf("update client: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[clientRow])
	if err != nil {
		if db.IsNoRows(err) {
			return model.Client{}, db.ErrNotFound
		}
		return model.Client{}, fmt.Errorf("update client: %w", err)
	}

	return row.toModel(), nil
}

func (r clientRepository) DeleteClient(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	return nil
}

func (r clientRepository) CreateClients(ctx context.Context, clients []model.Client) (int64, error) {
	if len(clients) == 0 {
		return 0, nil
	}

	now := time.Now()
	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"clients"},
		[]string{"name", "contact_person", "phone", "email", "address", "cnpj", "observations", "created_at"},
		pgx.CopyFromSlice(len(clients), func(i int) ([]any, error) {
			c := clients[i]
			createdAt := c.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			return []any{c.Name, c.ContactPerson, c.Phone, c.Email, c.Address, c.CNPJ, c.Observations, createdAt}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy clients: %w", err)
	}

	return n, nil
}

func (r clientRepository) UpdateClients(ctx context.Context, clients []model.Client) error {
	if len(clients) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range clients {
		batch.Queue(updateClientSQL, clientArgs(c))
	}

	results := r.db.SendBatch(ctx, batch)
	for _, c := range clients {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("update client %d: %w", c.ID, err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return nil
}

const updateClientSQL = `
	UPDATE clients
	SET
		name           = @name,
		contact_person = @contact_person,
		phone          = @phone,
		email          = @email,
		address        = @address,
		cnpj           = @cnpj,
		observations   = @observations,
		created_at     = @created_at
	WHERE id = @id`

func clientArgs(c model.Client) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":             c.ID,
		"name":           c.Name,
		"contact_person": c.ContactPerson,
		"phone":          c.Phone,
		"email":          c.Email,
		"address":        c.Address,
		"cnpj":           c.CNPJ,
		"observations":   c.Observations,
		"created_at":     c.CreatedAt,
	}
}

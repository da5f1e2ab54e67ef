package csvimport

import (
	"time"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/pkg/ptr"
)

const (
	FieldContactPerson = "contact_person"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldAddress       = "address"
	FieldCNPJ          = "cnpj"
	FieldObservations  = "observations"
)

// ClientColumns are the client import and export headers, in export order.
var ClientColumns = []Column{
	{Header: "ID", Field: FieldID},
	{Header: "Nome", Field: FieldName},
	{Header: "Pessoa de Contato", Field: FieldContactPerson},
	{Header: "Telefone", Field: FieldPhone},
	{Header: "Email", Field: FieldEmail},
	{Header: "Endereço", Field: FieldAddress},
	{Header: "CNPJ", Field: FieldCNPJ},
	{Header: "Observações", Field: FieldObservations},
	{Header: "Criado Em", Field: FieldCreatedAt},
}

// ClientRecord is a normalized client row. Nil fields were not provided.
type ClientRecord struct {
	ID            string
	Name          string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	CNPJ          *string
	Observations  *string
	CreatedAt     *time.Time
}

func (r ClientRecord) Identity() Identity {
	return Identity{ID: r.ID, Name: r.Name}
}

func NormalizeClient(f Fields) (ClientRecord, error) {
	createdAt, err := parseCreatedAt(f)
	if err != nil {
		return ClientRecord{}, err
	}

	id, _ := f.Lookup(FieldID)
	name, _ := f.Lookup(FieldName)

	return ClientRecord{
		ID:            id,
		Name:          name,
		ContactPerson: f.Optional(FieldContactPerson),
		Phone:         f.Optional(FieldPhone),
		Email:         f.Optional(FieldEmail),
		Address:       f.Optional(FieldAddress),
		CNPJ:          f.Optional(FieldCNPJ),
		Observations:  f.Optional(FieldObservations),
		CreatedAt:     createdAt,
	}, nil
}

func MergeClient(c model.Client, r ClientRecord) model.Client {
	if r.Name != "" {
		c.Name = r.Name
	}
	if r.ContactPerson != nil {
		c.ContactPerson = r.ContactPerson
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.Address != nil {
		c.Address = r.Address
	}
	if r.CNPJ != nil {
		c.CNPJ = r.CNPJ
	}
	if r.Observations != nil {
		c.Observations = r.Observations
	}
	if r.CreatedAt != nil {
		c.CreatedAt = *r.CreatedAt
	}
	return c
}

func NewClient(r ClientRecord) model.Client {
	return MergeClient(model.Client{}, r)
}

// ClientSchema imports clients.
var ClientSchema = Schema[ClientRecord, model.Client]{
	Singular:  "client",
	Plural:    "clients",
	Columns:   ClientColumns,
	Normalize: NormalizeClient,
	Merge:     MergeClient,
	Create:    NewClient,
	EntityID:  func(c model.Client) int64 { return c.ID },
}

// ClientRow renders a client in ClientColumns order.
func ClientRow(c model.Client) []string {
	return []string{
		formatID(c.ID),
		c.Name,
		ptr.Deref(c.ContactPerson),
		ptr.Deref(c.Phone),
		ptr.Deref(c.Email),
		ptr.Deref(c.Address),
		ptr.Deref(c.CNPJ),
		ptr.Deref(c.Observations),
		FormatTimestamp(c.CreatedAt),
	}
}

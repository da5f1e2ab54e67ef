package service_test

import (
	"cmp"
	"context"
	"slices"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tuanvumaihuynh/bizdesk/internal/model"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

var errUnique = &pgconn.PgError{Code: "23505"}

// table is a tiny keyed store shared by the fake repositories.
type table[E any] struct {
	rows   map[int64]E
	nextID int64
	id     func(E) int64
	setID  func(*E, int64)
	key    func(E) string
}

func newTable[E any](id func(E) int64, setID func(*E, int64), key func(E) string) *table[E] {
	return &table[E]{rows: map[int64]E{}, id: id, setID: setID, key: key}
}

func (t *table[E]) list() []E {
	out := make([]E, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b E) int { return cmp.Compare(t.id(a), t.id(b)) })
	return out
}

func (t *table[E]) get(id int64) (E, error) {
	r, ok := t.rows[id]
	if !ok {
		return r, db.ErrNotFound
	}
	return r, nil
}

func (t *table[E]) byKey(k string) (E, error) {
	for _, r := range t.list() {
		if t.key(r) == k {
			return r, nil
		}
	}
	var zero E
	return zero, db.ErrNotFound
}

func (t *table[E]) keyTaken(k string, except int64) bool {
	for id, r := range t.rows {
		if id != except && t.key(r) == k {
			return true
		}
	}
	return false
}

func (t *table[E]) insert(e E) (E, error) {
	if t.keyTaken(t.key(e), 0) {
		return e, errUnique
	}
	t.nextID++
	t.setID(&e, t.nextID)
	t.rows[t.nextID] = e
	return e, nil
}

func (t *table[E]) update(e E) (E, error) {
	if _, ok := t.rows[t.id(e)]; !ok {
		return e, db.ErrNotFound
	}
	if t.keyTaken(t.key(e), t.id(e)) {
		return e, errUnique
	}
	t.rows[t.id(e)] = e
	return e, nil
}

func (t *table[E]) remove(id int64) error {
	if _, ok := t.rows[id]; !ok {
		return db.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

type fakeClientRepo struct {
	*table[model.Client]
	bulkErr error
}

func newFakeClientRepo(clients ...model.Client) *fakeClientRepo {
	r := &fakeClientRepo{table: newTable(
		func(c model.Client) int64 { return c.ID },
		func(c *model.Client, id int64) { c.ID = id },
		func(c model.Client) string { return c.Name },
	)}
	for _, c := range clients {
		_, _ = r.insert(c)
	}
	return r
}

func (r *fakeClientRepo) WithDB(db.DB) repository.ClientRepository { return r }
func (r *fakeClientRepo) ListClients(context.Context) ([]model.Client, error) {
	return r.list(), nil
}
func (r *fakeClientRepo) GetClient(_ context.Context, id int64) (model.Client, error) {
	return r.get(id)
}
func (r *fakeClientRepo) GetClientByName(_ context.Context, name string) (model.Client, error) {
	return r.byKey(name)
}
func (r *fakeClientRepo) CreateClient(_ context.Context, c model.Client) (model.Client, error) {
	return r.insert(c)
}
func (r *fakeClientRepo) UpdateClient(_ context.Context, c model.Client) (model.Client, error) {
	return r.update(c)
}
func (r *fakeClientRepo) DeleteClient(_ context.Context, id int64) error {
	return r.remove(id)
}
func (r *fakeClientRepo) CreateClients(_ context.Context, clients []model.Client) (int64, error) {
	if r.bulkErr != nil {
		return 0, r.bulkErr
	}
	for _, c := range clients {
		if _, err := r.insert(c); err != nil {
			return 0, err
		}
	}
	return int64(len(clients)), nil
}
func (r *fakeClientRepo) UpdateClients(_ context.Context, clients []model.Client) error {
	if r.bulkErr != nil {
		return r.bulkErr
	}
	for _, c := range clients {
		if _, err := r.update(c); err != nil {
			return err
		}
	}
	return nil
}

type fakeProductRepo struct {
	*table[model.Product]
}

func newFakeProductRepo(products ...model.Product) *fakeProductRepo {
	r := &fakeProductRepo{table: newTable(
		func(p model.Product) int64 { return p.ID },
		func(p *model.Product, id int64) { p.ID = id },
		func(p model.Product) string { return p.Name },
	)}
	for _, p := range products {
		_, _ = r.insert(p)
	}
	return r
}

func (r *fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return r }
func (r *fakeProductRepo) ListProducts(context.Context) ([]model.Product, error) {
	return r.list(), nil
}
func (r *fakeProductRepo) GetProduct(_ context.Context, id int64) (model.Product, error) {
	return r.get(id)
}
func (r *fakeProductRepo) GetProductByName(_ context.Context, name string) (model.Product, error) {
	return r.byKey(name)
}
func (r *fakeProductRepo) CreateProduct(_ context.Context, p model.Product) (model.Product, error) {
	return r.insert(p)
}
func (r *fakeProductRepo) UpdateProduct(_ context.Context, p model.Product) (model.Product, error) {
	return r.update(p)
}
func (r *fakeProductRepo) DeleteProduct(_ context.Context, id int64) error {
	return r.remove(id)
}
func (r *fakeProductRepo) CreateProducts(_ context.Context, products []model.Product) (int64, error) {
	for _, p := range products {
		if _, err := r.insert(p); err != nil {
			return 0, err
		}
	}
	return int64(len(products)), nil
}
func (r *fakeProductRepo) UpdateProducts(_ context.Context, products []model.Product) error {
	for _, p := range products {
		if _, err := r.update(p); err != nil {
			return err
		}
	}
	return nil
}

type fakeOrderRepo struct {
	*table[model.Order]
}

func newFakeOrderRepo(orders ...model.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{table: newTable(
		func(o model.Order) int64 { return o.ID },
		func(o *model.Order, id int64) { o.ID = id },
		func(o model.Order) string { return o.OrderNumber },
	)}
	for _, o := range orders {
		_, _ = r.insert(o)
	}
	return r
}

func (r *fakeOrderRepo) WithDB(db.DB) repository.OrderRepository { return r }
func (r *fakeOrderRepo) ListOrders(context.Context) ([]model.Order, error) {
	return r.list(), nil
}
func (r *fakeOrderRepo) GetOrder(_ context.Context, id int64) (model.Order, error) {
	return r.get(id)
}
func (r *fakeOrderRepo) CreateOrder(_ context.Context, o model.Order) (model.Order, error) {
	return r.insert(o)
}
func (r *fakeOrderRepo) UpdateOrder(_ context.Context, o model.Order) (model.Order, error) {
	return r.update(o)
}
func (r *fakeOrderRepo) DeleteOrder(_ context.Context, id int64) error {
	return r.remove(id)
}

type fakeUserRepo struct {
	*table[model.User]
}

func newFakeUserRepo(users ...model.User) *fakeUserRepo {
	r := &fakeUserRepo{table: newTable(
		func(u model.User) int64 { return u.ID },
		func(u *model.User, id int64) { u.ID = id },
		func(u model.User) string { return u.Username },
	)}
	for _, u := range users {
		_, _ = r.insert(u)
	}
	return r
}

func (r *fakeUserRepo) WithDB(db.DB) repository.UserRepository { return r }
func (r *fakeUserRepo) ListUsers(context.Context) ([]model.User, error) {
	return r.list(), nil
}
func (r *fakeUserRepo) GetUser(_ context.Context, id int64) (model.User, error) {
	return r.get(id)
}
func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	return r.byKey(username)
}
func (r *fakeUserRepo) CreateUser(_ context.Context, u model.User) (model.User, error) {
	return r.insert(u)
}
func (r *fakeUserRepo) UpdateUser(_ context.Context, u model.User) (model.User, error) {
	return r.update(u)
}
func (r *fakeUserRepo) DeleteUser(_ context.Context, id int64) error {
	return r.remove(id)
}
func (r *fakeUserRepo) CountUsersByRole(_ context.Context, role string) (int, error) {
	n := 0
	for _, u := range r.rows {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeOutboxRepo struct {
	msgs []repository.CreateOutboxMsgParams
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }
func (r *fakeOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.msgs = append(r.msgs, params)
	return nil
}
func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}
func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

type fakeDashboardRepo struct {
	sales         []model.MonthlySales
	lowStock      []model.LowStockProduct
	lastThreshold int
}

func (r *fakeDashboardRepo) WithDB(db.DB) repository.DashboardRepository { return r }
func (r *fakeDashboardRepo) SalesByMonth(context.Context) ([]model.MonthlySales, error) {
	return r.sales, nil
}
func (r *fakeDashboardRepo) LowStockProducts(_ context.Context, threshold int) ([]model.LowStockProduct, error) {
	r.lastThreshold = threshold
	return r.lowStock, nil
}

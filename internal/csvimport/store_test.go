package csvimport_test

import (
	"context"
	"errors"
	"slices"

	"github.com/tuanvumaihuynh/bizdesk/internal/csvimport"
	"github.com/tuanvumaihuynh/bizdesk/internal/model"
)

// memStore is an in-memory csvimport.Store. Commit is all or nothing: check runs on the
// candidate state and a failure leaves items untouched.
type memStore[E any] struct {
	id    func(E) int64
	name  func(E) string
	setID func(*E, int64)
	check func([]E) error

	items   []E
	nextID  int64
	commits int
	batches []csvimport.Batch[E]
	findErr error
}

func (s *memStore[E]) FindByID(_ context.Context, id int64) (E, bool, error) {
	var zero E
	if s.findErr != nil {
		return zero, false, s.findErr
	}
	for _, it := range s.items {
		if s.id(it) == id {
			return it, true, nil
		}
	}
	return zero, false, nil
}

func (s *memStore[E]) FindByName(_ context.Context, name string) (E, bool, error) {
	var zero E
	if s.findErr != nil {
		return zero, false, s.findErr
	}
	for _, it := range s.items {
		if s.name(it) == name {
			return it, true, nil
		}
	}
	return zero, false, nil
}

func (s *memStore[E]) Commit(_ context.Context, b csvimport.Batch[E]) error {
	next := slices.Clone(s.items)
	for _, u := range b.Updates {
		idx := slices.IndexFunc(next, func(it E) bool { return s.id(it) == s.id(u) })
		if idx < 0 {
			return errors.New("update of unknown entity")
		}
		next[idx] = u
	}

	nextID := s.nextID
	for _, c := range b.Creates {
		nextID++
		s.setID(&c, nextID)
		next = append(next, c)
	}

	if s.check != nil {
		if err := s.check(next); err != nil {
			return err
		}
	}

	s.items, s.nextID = next, nextID
	s.commits++
	s.batches = append(s.batches, b)
	return nil
}

func newClientStore(clients ...model.Client) *memStore[model.Client] {
	s := &memStore[model.Client]{
		id:    func(c model.Client) int64 { return c.ID },
		name:  func(c model.Client) string { return c.Name },
		setID: func(c *model.Client, id int64) { c.ID = id },
		items: clients,
	}
	for _, c := range clients {
		s.nextID = max(s.nextID, c.ID)
	}
	return s
}

var errDuplicateSKU = errors.New(`duplicate key value violates unique constraint "products_sku_key"`)

func newProductStore(products ...model.Product) *memStore[model.Product] {
	s := &memStore[model.Product]{
		id:    func(p model.Product) int64 { return p.ID },
		name:  func(p model.Product) string { return p.Name },
		setID: func(p *model.Product, id int64) { p.ID = id },
		check: func(products []model.Product) error {
			seen := map[string]bool{}
			for _, p := range products {
				if p.SKU == nil {
					continue
				}
				if seen[*p.SKU] {
					return errDuplicateSKU
				}
				seen[*p.SKU] = true
			}
			return nil
		},
		items: products,
	}
	for _, p := range products {
		s.nextID = max(s.nextID, p.ID)
	}
	return s
}

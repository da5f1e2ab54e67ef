package csvimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Canonical fields shared by every entity.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldCreatedAt = "created_at"
)

// Identity is what the reconciler matches a record on. Empty strings mean not provided.
type Identity struct {
	ID   string
	Name string
}

// Record is a normalized row.
type Record interface {
	Identity() Identity
}

// Schema describes how one entity type is imported.
type Schema[R Record, E any] struct {
	// Singular and Plural name the entity in row errors and the summary message.
	Singular string
	Plural   string
	Columns  []Column

	// Normalize turns the raw fields of one row into a record. Any error rejects the row
	// and its message is reported verbatim.
	Normalize func(Fields) (R, error)
	// Merge overwrites the fields provided by the record and keeps the rest.
	Merge func(E, R) E
	// Create builds a new entity. Its id is left for the store to assign.
	Create func(R) E
	// EntityID returns the stored id of an entity.
	EntityID func(E) int64
}

// Store is the persisted state an import reconciles against.
type Store[E any] interface {
	FindByID(ctx context.Context, id int64) (E, bool, error)
	FindByName(ctx context.Context, name string) (E, bool, error)
	// Commit must apply the whole batch atomically or not at all.
	Commit(ctx context.Context, batch Batch[E]) error
}

// Batch is everything staged by one import.
type Batch[E any] struct {
	Creates []E
	Updates []E
	Summary Result
}

// Result summarizes a committed import.
type Result struct {
	Entity  string
	Created int
	Updated int
	Errors  []RowError
}

// Message is the human readable summary returned to the uploader.
func (r Result) Message() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Import finished. New %s: %d, updated %s: %d.", r.Entity, r.Created, r.Entity, r.Updated)
	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, " Errors found: %d.", len(r.Errors))
	}
	return sb.String()
}

// ErrorMessages renders the row errors as "line N: msg". It never returns nil.
func (r Result) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

// Run reads a CSV upload, reconciles every data row against store and commits the
// staged creates and updates in a single batch.
//
// Input problems are reported as *InputError before anything is staged. A failed
// lookup or commit is reported as *PersistenceError and discards the row errors.
func Run[R Record, E any](ctx context.Context, schema Schema[R, E], store Store[E], src io.Reader) (Result, error) {
	rr, err := newRowReader(src)
	if err != nil {
		return Result{}, err
	}

	header, err := rr.header()
	if err != nil {
		return Result{}, err
	}
	mapping := MapColumns(header, schema.Columns)

	rc := newReconciler(schema, store)
	result := Result{Entity: schema.Plural}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		row, line, err := rr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, err
		}

		rec, err := schema.Normalize(mapping.Extract(row))
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Msg: err.Error()})
			continue
		}

		outcome, err := rc.reconcile(ctx, rec)
		if err != nil {
			var rowErr rowRejection
			if errors.As(err, &rowErr) {
				result.Errors = append(result.Errors, RowError{Line: line, Msg: rowErr.msg})
				continue
			}
			return Result{}, &PersistenceError{Err: err}
		}

		switch outcome {
		case outcomeCreated:
			result.Created++
		case outcomeUpdated:
			result.Updated++
		}
	}

	batch := rc.batch()
	batch.Summary = result
	if err := store.Commit(ctx, batch); err != nil {
		return Result{}, &PersistenceError{Err: err}
	}

	return result, nil
}

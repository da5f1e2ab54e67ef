package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/csvimport"
	"github.com/tuanvumaihuynh/bizdesk/internal/event"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

var _ csvimport.Store[struct{}] = (*importStore[struct{}])(nil)

// importStore backs an import with repositories. Lookups run outside the transaction;
// the staged batch and its import.completed event are written in one transaction.
type importStore[E any] struct {
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	fileName      string

	findByID   func(ctx context.Context, id int64) (E, error)
	findByName func(ctx context.Context, name string) (E, error)
	commit     func(ctx context.Context, tx db.DB, batch csvimport.Batch[E]) error
}

func (s *importStore[E]) FindByID(ctx context.Context, id int64) (E, bool, error) {
	return lookup(s.findByID(ctx, id))
}

func (s *importStore[E]) FindByName(ctx context.Context, name string) (E, bool, error) {
	return lookup(s.findByName(ctx, name))
}

func (s *importStore[E]) Commit(ctx context.Context, batch csvimport.Batch[E]) error {
	return s.db.WithTx(ctx, func(tx db.DB) error {
		if err := s.commit(ctx, tx, batch); err != nil {
			return err
		}

		summary := batch.Summary
		return enqueueEvent(ctx, s.outboxMsgRepo.WithDB(tx), event.TopicImportCompleted, nil, event.ImportCompletedEvent{
			Entity:    summary.Entity,
			FileName:  s.fileName,
			Created:   summary.Created,
			Updated:   summary.Updated,
			RowErrors: len(summary.Errors),
		})
	})
}

func lookup[E any](e E, err error) (E, bool, error) {
	var zero E
	if errors.Is(err, db.ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return e, true, nil
}

// runImport validates the upload and maps engine failures onto API errors.
func runImport[R csvimport.Record, E any](
	ctx context.Context,
	schema csvimport.Schema[R, E],
	store csvimport.Store[E],
	params ImportParams,
) (csvimport.Result, error) {
	ctx, span := tracer.Start(ctx, "Import."+schema.Plural,
		trace.WithAttributes(attribute.String("import.file_name", params.FileName)))
	defer span.End()

	if params.FileName == "" || params.File == nil {
		return csvimport.Result{}, apperr.InvalidUploadErr.WithMsg("no file selected")
	}
	if !strings.EqualFold(filepath.Ext(params.FileName), ".csv") {
		return csvimport.Result{}, apperr.InvalidUploadErr.WithMsg("invalid file format, only .csv files are accepted")
	}

	res, err := csvimport.Run(ctx, schema, store, params.File)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import failed")

		var (
			inputErr   *csvimport.InputError
			persistErr *csvimport.PersistenceError
		)
		switch {
		case errors.As(err, &inputErr):
			return csvimport.Result{}, apperr.InvalidUploadErr.WithMsg(inputErr.Error()).WrapParent(err)
		case errors.As(err, &persistErr):
			return csvimport.Result{}, apperr.ImportFailedErr.WithMsgf("import failed: %v", persistErr.Err).WrapParent(err)
		default:
			return csvimport.Result{}, fmt.Errorf("csvimport run %s: %w", schema.Plural, err)
		}
	}

	span.SetAttributes(
		attribute.Int("import.created", res.Created),
		attribute.Int("import.updated", res.Updated),
		attribute.Int("import.row_errors", len(res.Errors)),
	)

	return res, nil
}

package csvimport

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type outcome int

const (
	outcomeCreated outcome = iota + 1
	outcomeUpdated
)

type rowRejection struct {
	msg string
}

func (r rowRejection) Error() string {
	return r.msg
}

func reject(format string, args ...any) rowRejection {
	return rowRejection{msg: fmt.Sprintf(format, args...)}
}

// reconciler stages one create or update per record. Lookups only see the persisted
// store, so two rows introducing the same new name become two creates.
type reconciler[R Record, E any] struct {
	schema Schema[R, E]
	store  Store[E]

	creates []E
	updates []E
	staged  map[int64]int
}

func newReconciler[R Record, E any](schema Schema[R, E], store Store[E]) *reconciler[R, E] {
	return &reconciler[R, E]{
		schema: schema,
		store:  store,
		staged: map[int64]int{},
	}
}

func (rc *reconciler[R, E]) reconcile(ctx context.Context, rec R) (outcome, error) {
	ident := rec.Identity()

	var (
		match    E
		found    bool
		knownID  int64
		idParsed bool
	)

	if raw := ident.ID; raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return 0, reject("invalid ID '%s'", raw)
		}
		knownID, idParsed = id, true

		match, found, err = rc.store.FindByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("find %s by id %d: %w", rc.schema.Singular, id, err)
		}
	}

	if !found && ident.Name != "" {
		var err error
		match, found, err = rc.store.FindByName(ctx, ident.Name)
		if err != nil {
			return 0, fmt.Errorf("find %s by name: %w", rc.schema.Singular, err)
		}
	}

	if found {
		rc.stageUpdate(match, rec)
		return outcomeUpdated, nil
	}

	if ident.Name == "" {
		if idParsed {
			return 0, reject("invalid ID %d: %s name is required and not provided", knownID, rc.schema.Singular)
		}
		return 0, reject("%s name is required and not provided", rc.schema.Singular)
	}

	rc.creates = append(rc.creates, rc.schema.Create(rec))
	return outcomeCreated, nil
}

// stageUpdate merges on top of an earlier update of the same entity in this batch.
func (rc *reconciler[R, E]) stageUpdate(match E, rec R) {
	id := rc.schema.EntityID(match)
	if idx, ok := rc.staged[id]; ok {
		rc.updates[idx] = rc.schema.Merge(rc.updates[idx], rec)
		return
	}

	rc.staged[id] = len(rc.updates)
	rc.updates = append(rc.updates, rc.schema.Merge(match, rec))
}

func (rc *reconciler[R, E]) batch() Batch[E] {
	return Batch[E]{
		Creates: rc.creates,
		Updates: rc.updates,
	}
}

package relay_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/bizdesk/internal/config"
	"github.com/tuanvumaihuynh/bizdesk/internal/log"
	"github.com/tuanvumaihuynh/bizdesk/internal/relay"
	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db/dbtest"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/mq"
)

type fakeOutboxRepo struct {
	pending []repository.ListUnprocessedOutboxMsgsResult
	updated []repository.BulkUpdateOutboxMsgsItem
	listErr error
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxRepo) CreateOutboxMsg(context.Context, repository.CreateOutboxMsgParams) error {
	return nil
}

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	n := min(int(params.BatchSize), len(r.pending))
	return r.pending[:n], nil
}

func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.updated = append(r.updated, params.Items...)
	done := map[uuid.UUID]bool{}
	for _, it := range params.Items {
		done[it.ID] = true
	}
	var rest []repository.ListUnprocessedOutboxMsgsResult
	for _, m := range r.pending {
		if !done[m.ID] {
			rest = append(rest, m)
		}
	}
	r.pending = rest
	return nil
}

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	if msg.Topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.produced = append(p.produced, msg)
	return nil
}

func newMsg(topic string) repository.ListUnprocessedOutboxMsgsResult {
	return repository.ListUnprocessedOutboxMsgsResult{
		ID:      uuid.Must(uuid.NewV7()),
		Topic:   topic,
		Headers: map[string]string{"X-Correlation-ID": "cid-1"},
		Payload: []byte(`{}`),
	}
}

func TestService_RelayBatch(t *testing.T) {
	cfg := config.Relay{BatchSize: 10, Interval: time.Millisecond, ShutdownTimeout: time.Second}

	t.Run("Should publish pending messages and mark them processed", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []repository.ListUnprocessedOutboxMsgsResult{
			newMsg("product.created"), newMsg("import.completed"),
		}}
		producer := &fakeProducer{}
		txDB := &dbtest.TxDB{}
		svc := relay.NewService(cfg, log.Discard(), txDB, repo, producer)

		n, err := svc.RelayBatch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Len(t, producer.produced, 2)
		require.Len(t, repo.updated, 2)
		for _, it := range repo.updated {
			assert.Nil(t, it.Error)
		}
		assert.Equal(t, 1, txDB.Commits)
	})

	t.Run("Should record the error of a message that could not be produced", func(t *testing.T) {
		failing := newMsg("import.completed")
		repo := &fakeOutboxRepo{pending: []repository.ListUnprocessedOutboxMsgsResult{newMsg("product.created"), failing}}
		producer := &fakeProducer{failOn: "import.completed"}
		svc := relay.NewService(cfg, log.Discard(), &dbtest.TxDB{}, repo, producer)

		_, err := svc.RelayBatch(context.Background())

		require.NoError(t, err)
		require.Len(t, repo.updated, 2)
		for _, it := range repo.updated {
			if it.ID == failing.ID {
				require.NotNil(t, it.Error)
				assert.Contains(t, *it.Error, "broker unavailable")
			} else {
				assert.Nil(t, it.Error)
			}
		}
	})

	t.Run("Should roll back when listing fails", func(t *testing.T) {
		repo := &fakeOutboxRepo{listErr: errors.New("boom")}
		txDB := &dbtest.TxDB{}
		svc := relay.NewService(cfg, log.Discard(), txDB, repo, &fakeProducer{})

		_, err := svc.RelayBatch(context.Background())

		assert.ErrorContains(t, err, "boom")
		assert.Equal(t, 1, txDB.Rollbacks)
	})

	t.Run("Should drain the backlog in the background", func(t *testing.T) {
		var pending []repository.ListUnprocessedOutboxMsgsResult
		for range 25 {
			pending = append(pending, newMsg("product.created"))
		}
		repo := &fakeOutboxRepo{pending: pending}
		producer := &fakeProducer{}
		svc := relay.NewService(cfg, log.Discard(), &dbtest.TxDB{}, repo, producer)

		cleanup := svc.Run(context.Background())
		assert.Eventually(t, func() bool {
			producer.mu.Lock()
			defer producer.mu.Unlock()
			return len(producer.produced) == 25
		}, time.Second, 5*time.Millisecond)
		cleanup()
	})
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/bizdesk/internal/repository"
	"github.com/tuanvumaihuynh/bizdesk/pkg/outbox"
)

var tracer = otel.Tracer("internal/service")

// enqueueEvent writes ev to the outbox with the caller's trace and correlation headers.
// Call it with a repository bound to the transaction of the change it announces.
func enqueueEvent(ctx context.Context, repo repository.OutboxMsgRepository, topic string, key *string, ev any) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	if err := repo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: key,
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

// normalizeText turns an empty string into nil so optional columns store NULL.
func normalizeText(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

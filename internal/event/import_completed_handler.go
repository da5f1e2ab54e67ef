package event

import (
	"context"
	"log/slog"
)

const TopicImportCompleted = "import.completed"

// ImportCompletedEvent is written in the same transaction as the imported rows.
type ImportCompletedEvent struct {
	Entity    string `json:"entity"`
	FileName  string `json:"file_name"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	RowErrors int    `json:"row_errors"`
}

func (s *Service) handleImportCompletedEvent(ctx context.Context, ev ImportCompletedEvent) error {
	level := slog.LevelInfo
	if ev.RowErrors > 0 {
		level = slog.LevelWarn
	}

	s.logger.Log(ctx, level, "handling import completed event",
		slog.String("entity", ev.Entity),
		slog.String("file_name", ev.FileName),
		slog.Int("created", ev.Created),
		slog.Int("updated", ev.Updated),
		slog.Int("row_errors", ev.RowErrors),
	)

	return nil
}

package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

const instrumentationName = "github.com/tuanvumaihuynh/bizdesk/internal/storage/mq"

var (
	tracer = otel.Tracer(instrumentationName)

	// kTracer hooks both clients. On produce it injects the relay span into the record
	// headers, after the headers copied from the outbox row.
	kTracer = kotel.NewTracer()
)

package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contas/internal/amqp"
	"contas/internal/log"
	"contas/internal/storage"
)

// EventWorker turns category-applied messages from the queue into audit
// records. The API server publishes and moves on; durability of the audit
// trail is this worker's job.
type EventWorker struct {
	events storage.EventStore
	logger *log.Logger
}

func NewEventWorker(events storage.EventStore, logger *log.Logger) *EventWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &EventWorker{
		events: events,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleCategoryApplied records one message as a category event. Returned
// errors make the consumer requeue the message.
func (w *EventWorker) HandleCategoryApplied(ctx context.Context, msg *amqp.CategoryAppliedMessage) error {
	source := storage.SourceManual
	if msg.Auto {
		source = storage.SourceAuto
	}

	createdAt := msg.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	ev := storage.CategoryEvent{
		ID:            uuid.NewString(),
		TransactionID: msg.TransactionID,
		Category:      msg.Category,
		Confidence:    msg.Confidence,
		Source:        source,
		CreatedAt:     createdAt,
	}

	if err := w.events.RecordCategoryEvent(ctx, ev); err != nil {
		w.logger.ErrorContext(ctx, "Failed to record category event",
			log.FieldError, err,
			log.FieldTransactionID, msg.TransactionID)
		return fmt.Errorf("record category event: %w", err)
	}

	w.logger.InfoContext(ctx, "Category event recorded",
		log.FieldTransactionID, msg.TransactionID,
		log.FieldCategory, msg.Category,
		log.FieldConfidence, msg.Confidence,
		"source", source)

	return nil
}

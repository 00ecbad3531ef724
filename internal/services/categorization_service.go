package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"contas/internal/amqp"
	"contas/internal/categorizer"
	"contas/internal/log"
	"contas/internal/storage"
)

// EventPublisher publishes category-applied events to the broker.
type EventPublisher interface {
	PublishCategoryApplied(ctx context.Context, msg *amqp.CategoryAppliedMessage) error
}

// CategorizationService orchestrates suggestion generation and acceptance
// across storage and AMQP.
type CategorizationService struct {
	repo      storage.Repository
	cat       *categorizer.Categorizer
	publisher EventPublisher
	logger    *log.Logger
}

func NewCategorizationService(repo storage.Repository, cat *categorizer.Categorizer, publisher EventPublisher, logger *log.Logger) *CategorizationService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CategorizationService{
		repo:      repo,
		cat:       cat,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentCategorizer),
	}
}

// Pending returns suggestions for every uncategorized transaction of the user.
func (s *CategorizationService) Pending(ctx context.Context, userID string) ([]categorizer.Suggestion, error) {
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	suggestions := s.cat.BulkSuggest(txs)
	s.logger.DebugContext(ctx, "Generated suggestions",
		log.FieldUserID, userID,
		log.FieldCount, len(suggestions))
	return suggestions, nil
}

// Accept applies a suggestion: the category is written to storage first,
// then the event is published. Publish failures never fail the request,
// the audit event is recorded locally instead.
func (s *CategorizationService) Accept(ctx context.Context, sg categorizer.Suggestion, auto bool) error {
	if err := s.cat.Accept(ctx, sg, s.repo); err != nil {
		return fmt.Errorf("apply category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category applied",
		log.FieldTransactionID, sg.Transaction.ID,
		log.FieldCategory, sg.Category,
		log.FieldConfidence, sg.Confidence,
		"auto", auto)

	source := storage.SourceManual
	if auto {
		source = storage.SourceAuto
	}

	if s.publisher != nil {
		msg := amqp.NewCategoryAppliedMessage(sg.Transaction.ID, sg.Category, sg.Confidence, auto)
		err := s.publisher.PublishCategoryApplied(ctx, msg)
		if err == nil {
			// The worker records the audit event from the queue.
			return nil
		}
		s.logger.ErrorContext(ctx, "Failed to publish category event, recording locally",
			log.FieldTransactionID, sg.Transaction.ID,
			log.FieldError, err)
	}

	ev := storage.CategoryEvent{
		ID:            uuid.NewString(),
		TransactionID: sg.Transaction.ID,
		Category:      sg.Category,
		Confidence:    sg.Confidence,
		Source:        source,
	}
	if err := s.repo.RecordCategoryEvent(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record category event",
			log.FieldTransactionID, sg.Transaction.ID,
			log.FieldError, err)
		// The category itself is applied, so the request still succeeds.
	}
	return nil
}

// AcceptByTransaction resolves the stored transaction, regenerates its
// suggestion and applies it. Used by the accept endpoint.
func (s *CategorizationService) AcceptByTransaction(ctx context.Context, txID string) (categorizer.Suggestion, error) {
	tx, err := s.repo.GetTransaction(ctx, txID)
	if err != nil {
		return categorizer.Suggestion{}, fmt.Errorf("get transaction: %w", err)
	}

	sg, ok := s.cat.Suggest(tx)
	if !ok {
		return categorizer.Suggestion{}, fmt.Errorf("no suggestion for transaction %s", txID)
	}

	if err := s.Accept(ctx, sg, false); err != nil {
		return categorizer.Suggestion{}, err
	}
	return sg, nil
}

// AutoAccept applies every high-confidence suggestion for the user and
// returns how many were accepted.
func (s *CategorizationService) AutoAccept(ctx context.Context, userID string) (int, error) {
	suggestions, err := s.Pending(ctx, userID)
	if err != nil {
		return 0, err
	}

	accepted := 0
	for _, sg := range suggestions {
		if !s.cat.AutoAcceptable(sg) {
			continue
		}
		if err := s.Accept(ctx, sg, true); err != nil {
			return accepted, fmt.Errorf("auto accept %s: %w", sg.Transaction.ID, err)
		}
		accepted++
	}

	s.logger.InfoContext(ctx, "Auto-accept completed",
		log.FieldUserID, userID,
		log.FieldCount, accepted)
	return accepted, nil
}

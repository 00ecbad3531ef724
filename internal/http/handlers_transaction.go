package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/log"
	"contas/internal/storage"
)

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Merchant    string `json:"merchant"`
	Date        string `json:"date"`
}

type transactionResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Amount      core.Money `json:"amount"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Merchant    string     `json:"merchant"`
	Date        time.Time  `json:"date"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Description: tx.Description,
		Merchant:    tx.Merchant,
		Date:        tx.Date,
	}
}

// parseDate accepts full RFC3339 timestamps or bare dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: use YYYY-MM-DD or RFC3339")
		return
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID(r),
		Amount:      amount,
		Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type))),
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Merchant:    sanitizeInput(req.Merchant),
		Date:        date,
	}

	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create transaction",
			log.FieldError, err,
			log.FieldUserID, tx.UserID)
		writeStorageError(w, err)
		return
	}

	s.invalidateReports(tx.UserID)
	s.logger.InfoContext(ctx, "Transaction created",
		log.FieldTransactionID, tx.ID,
		log.FieldUserID, tx.UserID,
		log.FieldAmount, tx.Amount.String())

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)

	txs, err := s.repo.ListTransactions(ctx, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list transactions",
			log.FieldError, err,
			log.FieldUserID, user)
		writeStorageError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	// Ownership check before deleting: the row must belong to the caller.
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if tx.UserID != userID(r) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Failed to delete transaction",
				log.FieldError, err,
				log.FieldTransactionID, id)
		}
		writeStorageError(w, err)
		return
	}

	s.invalidateReports(tx.UserID)
	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTransactionID, id)

	w.WriteHeader(http.StatusNoContent)
}

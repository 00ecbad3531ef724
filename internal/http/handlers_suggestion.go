package http

import (
	"net/http"

	"contas/internal/categorizer"
	"contas/internal/log"
)

type suggestionResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Category    string              `json:"category"`
	Confidence  float64             `json:"confidence"`
	Tier        string              `json:"tier"`
}

type acceptSuggestionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type autoAcceptResponse struct {
	Accepted int `json:"accepted"`
}

func toSuggestionResponse(sg categorizer.Suggestion) suggestionResponse {
	return suggestionResponse{
		Transaction: toTransactionResponse(sg.Transaction),
		Category:    sg.Category,
		Confidence:  sg.Confidence,
		Tier:        string(sg.Tier),
	}
}

// handleListSuggestions returns category suggestions for the caller's
// uncategorized transactions.
func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)

	suggestions, err := s.categorization.Pending(ctx, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build suggestions",
			log.FieldError, err,
			log.FieldUserID, user)
		writeStorageError(w, err)
		return
	}

	out := make([]suggestionResponse, 0, len(suggestions))
	for _, sg := range suggestions {
		out = append(out, toSuggestionResponse(sg))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAcceptSuggestion applies the current suggestion for one transaction.
func (s *Server) handleAcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)

	var req acceptSuggestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, "transaction_id is required")
		return
	}

	tx, err := s.repo.GetTransaction(ctx, req.TransactionID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if tx.UserID != user {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	sg, err := s.categorization.AcceptByTransaction(ctx, req.TransactionID)
	if err != nil {
		s.logger.WarnContext(ctx, "Suggestion not accepted",
			log.FieldError, err,
			log.FieldTransactionID, req.TransactionID)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.structured.LogSuggestionAccepted(ctx, sg.Transaction.ID, sg.Category, sg.Confidence, false)
	s.invalidateReports(user)
	writeJSON(w, http.StatusOK, toSuggestionResponse(sg))
}

// handleAutoAccept applies every high-confidence suggestion for the caller.
func (s *Server) handleAutoAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)

	accepted, err := s.categorization.AutoAccept(ctx, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Auto-accept failed",
			log.FieldError, err,
			log.FieldUserID, user)
		writeStorageError(w, err)
		return
	}

	if accepted > 0 {
		s.invalidateReports(user)
	}
	s.logger.InfoContext(ctx, "Auto-accept completed",
		log.FieldUserID, user,
		log.FieldCount, accepted)

	writeJSON(w, http.StatusOK, autoAcceptResponse{Accepted: accepted})
}

package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/log"
)

type createBudgetRequest struct {
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

type budgetResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Category    string     `json:"category"`
	Amount      core.Money `json:"amount"`
	Period      string     `json:"period"`
	Description string     `json:"description"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		Category:    b.Category,
		Amount:      b.Amount,
		Period:      string(b.Period),
		Description: b.Description,
	}
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	b := core.Budget{
		ID:          uuid.NewString(),
		UserID:      userID(r),
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Period:      core.BudgetPeriod(strings.ToLower(strings.TrimSpace(req.Period))),
		Description: sanitizeInput(req.Description),
	}

	if err := b.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create budget",
			log.FieldError, err,
			log.FieldUserID, b.UserID,
			log.FieldCategory, b.Category)
		writeStorageError(w, err)
		return
	}

	s.invalidateReports(b.UserID)
	s.logger.InfoContext(ctx, "Budget created",
		log.FieldBudgetID, b.ID,
		log.FieldCategory, b.Category,
		log.FieldPeriod, string(b.Period))

	writeJSON(w, http.StatusCreated, toBudgetResponse(b))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)

	budgets, err := s.repo.ListBudgets(ctx, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list budgets",
			log.FieldError, err,
			log.FieldUserID, user)
		writeStorageError(w, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	user := userID(r)

	budgets, err := s.repo.ListBudgets(ctx, user)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	owned := false
	for _, b := range budgets {
		if b.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.repo.DeleteBudget(ctx, id); err != nil {
		writeStorageError(w, err)
		return
	}

	s.invalidateReports(user)
	s.logger.InfoContext(ctx, "Budget deleted", log.FieldBudgetID, id)

	w.WriteHeader(http.StatusNoContent)
}

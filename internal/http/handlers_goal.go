package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/log"
)

type createGoalRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	Deadline      string `json:"deadline"`
}

type contributeGoalRequest struct {
	Amount string `json:"amount"`
}

type goalResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	CurrentAmount core.Money `json:"current_amount"`
	TargetAmount  core.Money `json:"target_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		Name:          g.Name,
		Category:      g.Category,
		CurrentAmount: g.CurrentAmount,
		TargetAmount:  g.TargetAmount,
		Deadline:      g.Deadline,
	}
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := core.ParseMoney(req.TargetAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target amount")
		return
	}

	current := core.Zero
	if req.CurrentAmount != "" {
		current, err = core.ParseMoney(req.CurrentAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid current amount")
			return
		}
	}

	var deadline *time.Time
	if req.Deadline != "" {
		d, err := parseDate(req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid deadline: use YYYY-MM-DD or RFC3339")
			return
		}
		deadline = &d
	}

	g := core.Goal{
		ID:            uuid.NewString(),
		UserID:        userID(r),
		Name:          sanitizeInput(req.Name),
		Category:      sanitizeInput(req.Category),
		CurrentAmount: current,
		TargetAmount:  target,
		Deadline:      deadline,
	}

	if err := g.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create goal",
			log.FieldError, err,
			log.FieldUserID, g.UserID)
		writeStorageError(w, err)
		return
	}

	s.invalidateReports(g.UserID)
	s.logger.InfoContext(ctx, "Goal created",
		log.FieldGoalID, g.ID,
		log.FieldUserID, g.UserID)

	writeJSON(w, http.StatusCreated, toGoalResponse(g))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)

	goals, err := s.repo.ListGoals(ctx, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list goals",
			log.FieldError, err,
			log.FieldUserID, user)
		writeStorageError(w, err)
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleContributeGoal adds an amount to a goal's saved total.
func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	user := userID(r)

	var req contributeGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil || !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "contribution must be a positive amount")
		return
	}

	goal, ok, err := s.findGoal(ctx, user, id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	if err := s.repo.UpdateGoalCurrentAmount(ctx, id, goal.CurrentAmount); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update goal",
			log.FieldError, err,
			log.FieldGoalID, id)
		writeStorageError(w, err)
		return
	}

	s.invalidateReports(user)
	s.logger.InfoContext(ctx, "Goal contribution recorded",
		log.FieldGoalID, id,
		log.FieldAmount, amount.String())

	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	user := userID(r)

	_, ok, err := s.findGoal(ctx, user, id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.repo.DeleteGoal(ctx, id); err != nil {
		writeStorageError(w, err)
		return
	}

	s.invalidateReports(user)
	s.logger.InfoContext(ctx, "Goal deleted", log.FieldGoalID, id)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) findGoal(ctx context.Context, user, id string) (core.Goal, bool, error) {
	goals, err := s.repo.ListGoals(ctx, user)
	if err != nil {
		return core.Goal{}, false, err
	}
	for _, g := range goals {
		if g.ID == id {
			return g, true, nil
		}
	}
	return core.Goal{}, false, nil
}

package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/rosterwire/contest-engine/internal/usecase"
)

type createContestRequest struct {
	LeagueID  string `json:"league_id" validate:"required"`
	Category  string `json:"category" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Title     string `json:"title" validate:"omitempty,max=200"`
}

func (h *Handler) CreateContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateContest")
	defer span.End()

	var req createContestRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	startDate, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: start_date must be YYYY-MM-DD: %v", usecase.ErrInvalidInput, err))
		return
	}
	endDate, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: end_date must be YYYY-MM-DD: %v", usecase.ErrInvalidInput, err))
		return
	}

	c, err := h.contestService.CreateContest(ctx, usecase.CreateContestInput{
		LeagueID:  req.LeagueID,
		Category:  req.Category,
		StartDate: startDate,
		EndDate:   endDate,
		Title:     req.Title,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create contest failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, contestToDTO(c))
}

func (h *Handler) ListContests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContests")
	defer span.End()

	contests, err := h.contestService.ListContests(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list contests failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]contestDTO, 0, len(contests))
	for _, c := range contests {
		items = append(items, contestToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContest")
	defer span.End()

	contestID := r.PathValue("contestID")
	c, err := h.contestService.GetContest(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestToDTO(c))
}

func (h *Handler) DeleteContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteContest")
	defer span.End()

	contestID := r.PathValue("contestID")
	if err := h.contestService.DeleteContest(ctx, contestID); err != nil {
		h.logger.WarnContext(ctx, "delete contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetContestResults serves the contest's current standing, recomputing only
// when the latest snapshot has gone stale.
func (h *Handler) GetContestResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContestResults")
	defer span.End()

	contestID := r.PathValue("contestID")
	snap, err := h.contestService.ContestData(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get contest results failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snap))
}

// RecomputeContestResults forces a fresh computation regardless of snapshot
// freshness.
func (h *Handler) RecomputeContestResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeContestResults")
	defer span.End()

	contestID := r.PathValue("contestID")
	snap, err := h.contestService.ComputeStats(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute contest results failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snap))
}

package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	"github.com/rosterwire/contest-engine/internal/usecase"
)

type Handler struct {
	leagueService  *usecase.LeagueService
	contestService *usecase.ContestService
	logger         *slog.Logger
	validator      *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	contestService *usecase.ContestService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		leagueService:  leagueService,
		contestService: contestService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type leagueDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ProviderLeagueID int    `json:"provider_league_id"`
	PitcherSlots     []int  `json:"pitcher_slots"`
	CreatedAt        string `json:"created_at"`
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:               l.ID,
		Name:             l.Name,
		ProviderLeagueID: l.ProviderLeagueID,
		PitcherSlots:     l.PitcherSlots,
		CreatedAt:        l.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type contestDTO struct {
	ID        string `json:"id"`
	LeagueID  string `json:"league_id"`
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at"`
}

func contestToDTO(c contest.Contest) contestDTO {
	return contestDTO{
		ID:        c.ID,
		LeagueID:  c.LeagueID,
		Category:  c.Category.String(),
		StartDate: c.StartDate.Format(time.DateOnly),
		EndDate:   c.EndDate.Format(time.DateOnly),
		Title:     c.Title,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type contestResultDTO struct {
	ContestID  string               `json:"contest_id"`
	Rankings   []snapshot.TeamValue `json:"rankings"`
	ChartData  snapshot.ChartData   `json:"chart_data"`
	Warning    string               `json:"warning,omitempty"`
	Status     snapshot.Status      `json:"status"`
	ComputedAt string               `json:"computed_at"`
}

func snapshotToDTO(s snapshot.Snapshot) contestResultDTO {
	rankings := s.Rankings
	if rankings == nil {
		rankings = []snapshot.TeamValue{}
	}
	return contestResultDTO{
		ContestID:  s.ContestID,
		Rankings:   rankings,
		ChartData:  s.Chart,
		Warning:    s.Warning,
		Status:     s.Status,
		ComputedAt: s.ComputedAt.UTC().Format(time.RFC3339),
	}
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	"github.com/rosterwire/contest-engine/internal/platform/id"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

// CredentialCipher protects league credentials at rest. Decryption happens
// per outbound call and plaintext never leaves the call path.
type CredentialCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

const notStartedWarning = "Contest not started yet."

// ContestService owns contest lifecycle and the snapshot staleness policy:
// a result computed today is reused all day, and a contest that ended
// before today is frozen at its last snapshot.
type ContestService struct {
	contestRepo  contest.Repository
	leagueRepo   league.Repository
	snapshotRepo snapshot.Repository
	aggregator   *AggregatorService
	cipher       CredentialCipher
	ids          id.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewContestService(
	contestRepo contest.Repository,
	leagueRepo league.Repository,
	snapshotRepo snapshot.Repository,
	aggregator *AggregatorService,
	cipher CredentialCipher,
	ids id.Generator,
	logger *logging.Logger,
) *ContestService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ContestService{
		contestRepo:  contestRepo,
		leagueRepo:   leagueRepo,
		snapshotRepo: snapshotRepo,
		aggregator:   aggregator,
		cipher:       cipher,
		ids:          ids,
		logger:       logger,
		now:          time.Now,
	}
}

type CreateContestInput struct {
	LeagueID  string
	Category  string
	StartDate time.Time
	EndDate   time.Time
	Title     string
}

// CreateContest validates and stores a contest. When the start date is not
// in the future an initial snapshot is computed right away; a failure there
// leaves the contest in place without results.
func (s *ContestService) CreateContest(ctx context.Context, in CreateContestInput) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.CreateContest")
	defer span.End()

	category, err := stats.Parse(in.Category)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	leagueID := strings.TrimSpace(in.LeagueID)
	if leagueID == "" {
		return contest.Contest{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	contestID, err := s.ids.NewID()
	if err != nil {
		return contest.Contest{}, fmt.Errorf("generate contest id: %w", err)
	}

	c := contest.Contest{
		ID:        contestID,
		LeagueID:  leagueID,
		Category:  category,
		StartDate: dateOnly(in.StartDate),
		EndDate:   dateOnly(in.EndDate),
		Title:     strings.TrimSpace(in.Title),
		CreatedAt: s.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.contestRepo.Create(ctx, c); err != nil {
		return contest.Contest{}, fmt.Errorf("create contest: %w", err)
	}

	today := dateOnly(s.now().UTC())
	if !c.StartDate.After(today) {
		if _, err := s.ComputeStats(ctx, c.ID); err != nil {
			s.logger.WarnContext(ctx, "initial contest computation failed",
				"contest_id", c.ID,
				"error", err,
			)
		}
	}
	return c, nil
}

func (s *ContestService) ListContests(ctx context.Context) ([]contest.Contest, error) {
	contests, err := s.contestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}
	return contests, nil
}

func (s *ContestService) GetContest(ctx context.Context, contestID string) (contest.Contest, error) {
	c, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}
	return c, nil
}

// DeleteContest removes a contest and its snapshot history.
func (s *ContestService) DeleteContest(ctx context.Context, contestID string) error {
	ctx, span := startUsecaseSpan(ctx, "ContestService.DeleteContest")
	defer span.End()

	_, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}
	if err := s.snapshotRepo.DeleteByContest(ctx, contestID); err != nil {
		return fmt.Errorf("delete contest snapshots: %w", err)
	}
	if err := s.contestRepo.Delete(ctx, contestID); err != nil {
		return fmt.Errorf("delete contest: %w", err)
	}
	return nil
}

// ContestData returns the contest's current result, reusing the latest
// snapshot unless it has gone stale: computed before today while the
// contest is still running. Contests that ended before today stay frozen.
func (s *ContestService) ContestData(ctx context.Context, contestID string) (snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.ContestData")
	defer span.End()

	c, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return snapshot.Snapshot{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}

	latest, found, err := s.snapshotRepo.Latest(ctx, contestID)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}

	today := dateOnly(s.now().UTC())
	if found {
		stale := dateOnly(latest.ComputedAt).Before(today) && !c.EndDate.Before(today)
		if !stale {
			return latest, nil
		}
	}

	return s.recompute(ctx, c)
}

// ComputeStats recomputes the contest unconditionally and appends a new
// snapshot to the history.
func (s *ContestService) ComputeStats(ctx context.Context, contestID string) (snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestService.ComputeStats")
	defer span.End()

	c, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return snapshot.Snapshot{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}
	return s.recompute(ctx, c)
}

func (s *ContestService) recompute(ctx context.Context, c contest.Contest) (snapshot.Snapshot, error) {
	snap, err := s.compute(ctx, c)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if err := s.snapshotRepo.Append(ctx, snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("append snapshot: %w", err)
	}
	return snap, nil
}

func (s *ContestService) compute(ctx context.Context, c contest.Contest) (snapshot.Snapshot, error) {
	today := dateOnly(s.now().UTC())

	snapshotID, err := s.ids.NewID()
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("generate snapshot id: %w", err)
	}

	// Upcoming contests produce an empty result without touching providers.
	if c.StartDate.After(today) {
		toStart := daysBetween(today, c.StartDate)
		return snapshot.Snapshot{
			ID:        snapshotID,
			ContestID: c.ID,
			Rankings:  []snapshot.TeamValue{},
			Chart:     snapshot.BuildChart(c.Category.String(), nil),
			Warning:   notStartedWarning,
			Status: snapshot.Status{
				Started:     false,
				DaysToStart: &toStart,
			},
			ComputedAt: s.now().UTC(),
		}, nil
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, c.LeagueID)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return snapshot.Snapshot{}, fmt.Errorf("%w: linked league=%s", ErrNotFound, c.LeagueID)
	}

	creds, err := s.decryptCredentials(lg)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	comp, err := s.aggregator.Compute(ctx, lg, creds, c, today)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	status := snapshot.Status{Started: true}
	if c.EndDate.After(today) {
		remaining := daysBetween(today, c.EndDate)
		status.DaysRemaining = &remaining
	} else {
		status.Complete = true
		status.Winner = winners(comp.Rankings)
	}

	return snapshot.Snapshot{
		ID:         snapshotID,
		ContestID:  c.ID,
		Rankings:   comp.Rankings,
		Chart:      snapshot.BuildChart(c.Category.String(), comp.Rankings),
		Warning:    comp.Warning(),
		Status:     status,
		ComputedAt: s.now().UTC(),
	}, nil
}

func (s *ContestService) decryptCredentials(lg league.League) (LeagueCredentials, error) {
	s2, err := s.cipher.Decrypt(lg.EncryptedS2)
	if err != nil {
		return LeagueCredentials{}, fmt.Errorf("decrypt league credentials: %w", err)
	}
	swid, err := s.cipher.Decrypt(lg.EncryptedSWID)
	if err != nil {
		return LeagueCredentials{}, fmt.Errorf("decrypt league credentials: %w", err)
	}
	return LeagueCredentials{S2: s2, SWID: swid}, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	"github.com/rosterwire/contest-engine/internal/platform/id"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

// LeagueService links provider leagues into the engine. Linking validates
// the credential pair against the provider's settings endpoint, derives the
// league name and active pitcher slots from it, and stores the credentials
// encrypted.
type LeagueService struct {
	leagueRepo   league.Repository
	contestRepo  contest.Repository
	snapshotRepo snapshot.Repository
	lineup       LineupProvider
	cipher       CredentialCipher
	ids          id.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	contestRepo contest.Repository,
	snapshotRepo snapshot.Repository,
	lineup LineupProvider,
	cipher CredentialCipher,
	ids id.Generator,
	logger *logging.Logger,
) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		leagueRepo:   leagueRepo,
		contestRepo:  contestRepo,
		snapshotRepo: snapshotRepo,
		lineup:       lineup,
		cipher:       cipher,
		ids:          ids,
		logger:       logger,
		now:          time.Now,
	}
}

type LinkLeagueInput struct {
	ProviderLeagueID int
	S2               string
	SWID             string
}

// LinkLeague validates the credentials against the provider and persists
// the league with encrypted credentials and settings-derived pitcher slots.
func (s *LeagueService) LinkLeague(ctx context.Context, in LinkLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.LinkLeague")
	defer span.End()

	if in.ProviderLeagueID <= 0 {
		return league.League{}, fmt.Errorf("%w: provider league id is required", ErrInvalidInput)
	}
	s2, swid := strings.TrimSpace(in.S2), strings.TrimSpace(in.SWID)
	if s2 == "" || swid == "" {
		return league.League{}, fmt.Errorf("%w: league credentials are required", ErrInvalidInput)
	}

	creds := LeagueCredentials{S2: s2, SWID: swid}
	settings, err := s.lineup.LeagueSettings(ctx, in.ProviderLeagueID, creds)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return league.League{}, fmt.Errorf("%w: provider rejected league credentials", ErrUnauthorized)
		}
		return league.League{}, fmt.Errorf("%w: invalid league details or credentials: %v", ErrInvalidInput, err)
	}

	encryptedS2, err := s.cipher.Encrypt(s2)
	if err != nil {
		return league.League{}, fmt.Errorf("encrypt league credentials: %w", err)
	}
	encryptedSWID, err := s.cipher.Encrypt(swid)
	if err != nil {
		return league.League{}, fmt.Errorf("encrypt league credentials: %w", err)
	}

	leagueID, err := s.ids.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.now().UTC()
	lg := league.League{
		ID:               leagueID,
		Name:             settings.Name,
		ProviderLeagueID: in.ProviderLeagueID,
		EncryptedS2:      encryptedS2,
		EncryptedSWID:    encryptedSWID,
		PitcherSlots:     league.NormalizePitcherSlots(settings.PitcherSlots),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := lg.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.leagueRepo.Create(ctx, lg); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}
	return lg, nil
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return leagues, nil
}

// DeleteLeague removes the league, its contests, and their snapshots.
func (s *LeagueService) DeleteLeague(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.DeleteLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	contests, err := s.contestRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list contests by league: %w", err)
	}
	for _, c := range contests {
		if err := s.snapshotRepo.DeleteByContest(ctx, c.ID); err != nil {
			return fmt.Errorf("delete contest snapshots: %w", err)
		}
	}
	if err := s.contestRepo.DeleteByLeague(ctx, leagueID); err != nil {
		return fmt.Errorf("delete contests by league: %w", err)
	}
	if err := s.leagueRepo.Delete(ctx, leagueID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	return nil
}

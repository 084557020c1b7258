package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	"github.com/rosterwire/contest-engine/internal/infrastructure/repository/memory"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

func newLeagueServiceForTest(lineup *fakeLineupProvider) (*LeagueService, *memory.LeagueRepository, *memory.ContestRepository, *memory.SnapshotRepository) {
	leagues := memory.NewLeagueRepository(nil)
	contests := memory.NewContestRepository()
	snapshots := memory.NewSnapshotRepository()
	svc := NewLeagueService(leagues, contests, snapshots, lineup, plainCipher{}, &sequenceIDs{}, logging.NewNop())
	return svc, leagues, contests, snapshots
}

func TestLinkLeague_DerivesSettingsAndEncrypts(t *testing.T) {
	lineup := &fakeLineupProvider{
		settings: LeagueSettings{Name: "West Coast Ball", PitcherSlots: []int{13, 15}},
	}
	svc, leagues, _, _ := newLeagueServiceForTest(lineup)

	lg, err := svc.LinkLeague(context.Background(), LinkLeagueInput{
		ProviderLeagueID: 42,
		S2:               "secret-s2",
		SWID:             "{SWID}",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lg.Name != "West Coast Ball" {
		t.Fatalf("unexpected name: %q", lg.Name)
	}
	if !reflect.DeepEqual(lg.PitcherSlots, []int{13, 15}) {
		t.Fatalf("unexpected pitcher slots: %v", lg.PitcherSlots)
	}
	if lg.EncryptedS2 != "enc:secret-s2" || lg.EncryptedSWID != "enc:{SWID}" {
		t.Fatalf("credentials must be stored encrypted: %+v", lg)
	}

	stored, exists, err := leagues.GetByID(context.Background(), lg.ID)
	if err != nil || !exists {
		t.Fatalf("league must be persisted: exists=%v err=%v", exists, err)
	}
	if stored.ProviderLeagueID != 42 {
		t.Fatalf("unexpected stored league: %+v", stored)
	}
}

func TestLinkLeague_DefaultsPitcherSlots(t *testing.T) {
	lineup := &fakeLineupProvider{settings: LeagueSettings{Name: "Default Slots"}}
	svc, _, _, _ := newLeagueServiceForTest(lineup)

	lg, err := svc.LinkLeague(context.Background(), LinkLeagueInput{
		ProviderLeagueID: 42,
		S2:               "s2",
		SWID:             "swid",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(lg.PitcherSlots, []int{13, 14, 15}) {
		t.Fatalf("unexpected pitcher slots: %v", lg.PitcherSlots)
	}
}

func TestLinkLeague_InputValidation(t *testing.T) {
	svc, _, _, _ := newLeagueServiceForTest(&fakeLineupProvider{})

	cases := []struct {
		name string
		in   LinkLeagueInput
	}{
		{"missing league id", LinkLeagueInput{S2: "a", SWID: "b"}},
		{"missing s2", LinkLeagueInput{ProviderLeagueID: 42, SWID: "b"}},
		{"missing swid", LinkLeagueInput{ProviderLeagueID: 42, S2: "a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.LinkLeague(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("want invalid input, got %v", err)
			}
		})
	}
}

func TestLinkLeague_ProviderErrors(t *testing.T) {
	in := LinkLeagueInput{ProviderLeagueID: 42, S2: "a", SWID: "b"}

	rejected := &fakeLineupProvider{
		settingsErr: fmt.Errorf("%w: provider rejected credentials", ErrUnauthorized),
	}
	svc, _, _, _ := newLeagueServiceForTest(rejected)
	if _, err := svc.LinkLeague(context.Background(), in); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want unauthorized, got %v", err)
	}

	broken := &fakeLineupProvider{settingsErr: fmt.Errorf("no such league")}
	svc, _, _, _ = newLeagueServiceForTest(broken)
	if _, err := svc.LinkLeague(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("other settings failures read as bad input, got %v", err)
	}
}

func TestDeleteLeague_CascadesContestsAndSnapshots(t *testing.T) {
	lineup := &fakeLineupProvider{settings: LeagueSettings{Name: "Doomed"}}
	svc, leagues, contests, snapshots := newLeagueServiceForTest(lineup)

	lg, err := svc.LinkLeague(context.Background(), LinkLeagueInput{
		ProviderLeagueID: 42,
		S2:               "s2",
		SWID:             "swid",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	contestSvc := NewContestService(contests, leagues, snapshots, nil, plainCipher{}, &sequenceIDs{}, logging.NewNop())
	contestSvc.now = func() time.Time { return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) }
	c, err := contestSvc.CreateContest(ctx, CreateContestInput{
		LeagueID:  lg.ID,
		Category:  "HR",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := snapshots.Append(ctx, snapshot.Snapshot{ID: "snap-1", ContestID: c.ID, ComputedAt: time.Now()}); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	if err := svc.DeleteLeague(ctx, lg.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, exists, _ := leagues.GetByID(ctx, lg.ID); exists {
		t.Fatalf("league must be gone")
	}
	if remaining, _ := contests.ListByLeague(ctx, lg.ID); len(remaining) != 0 {
		t.Fatalf("contests must be gone: %+v", remaining)
	}
	if got := snapshots.Count(ctx, c.ID); got != 0 {
		t.Fatalf("snapshots must be gone, got %d", got)
	}

	if err := svc.DeleteLeague(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

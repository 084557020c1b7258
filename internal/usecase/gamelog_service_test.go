package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	"github.com/rosterwire/contest-engine/internal/infrastructure/repository/memory"
	basecache "github.com/rosterwire/contest-engine/internal/platform/cache"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

func newGameLogServiceForTest(repo gamelog.Repository, statsProv *fakeStatsProvider, today time.Time) *GameLogService {
	svc := NewGameLogService(repo, statsProv, testSeason, basecache.NewStore(time.Minute), logging.NewNop())
	svc.now = func() time.Time { return today }
	return svc
}

func storedLog(updatedAt time.Time, entries ...gamelog.Entry) gamelog.Log {
	return gamelog.Log{
		LeagueLocalID: 101,
		CanonicalID:   901,
		PlayerName:    "Alpha One",
		Season:        testSeason.Year,
		Group:         stats.GroupHitting,
		Entries:       entries,
		UpdatedAt:     updatedAt,
	}
}

func TestLog_FreshStoredLogSkipsProvider(t *testing.T) {
	today := day(t, "2025-06-10")
	repo := memory.NewGameLogRepository()
	seed := storedLog(today, gamelog.Entry{Date: "2025-06-09", Stats: map[string]any{"hits": 2.0}})
	if err := repo.Upsert(context.Background(), seed); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	statsProv := &fakeStatsProvider{}
	svc := newGameLogServiceForTest(repo, statsProv, today)

	entries, err := svc.Log(context.Background(), 101, 901, "Alpha One", stats.GroupHitting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Date != "2025-06-09" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if statsProv.logCalls != 0 {
		t.Fatalf("same-day log must not hit the provider, got %d calls", statsProv.logCalls)
	}
}

func TestLog_StaleLogIsReplaced(t *testing.T) {
	today := day(t, "2025-06-10")
	repo := memory.NewGameLogRepository()
	seed := storedLog(day(t, "2025-06-09"), gamelog.Entry{Date: "2025-06-08", Stats: map[string]any{"hits": 1.0}})
	if err := repo.Upsert(context.Background(), seed); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	statsProv := &fakeStatsProvider{
		logs: map[int64]map[stats.Group][]gamelog.Entry{
			901: {stats.GroupHitting: {
				{Date: "2025-06-08", Stats: map[string]any{"hits": 1.0}},
				{Date: "2025-06-09", Stats: map[string]any{"hits": 3.0}},
			}},
		},
	}
	svc := newGameLogServiceForTest(repo, statsProv, today)

	entries, err := svc.Log(context.Background(), 101, 901, "Alpha One", stats.GroupHitting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("stale log must be refetched whole: %+v", entries)
	}

	stored, exists, err := repo.Get(context.Background(), 101, testSeason.Year, stats.GroupHitting)
	if err != nil || !exists {
		t.Fatalf("refreshed log must be stored: exists=%v err=%v", exists, err)
	}
	if len(stored.Entries) != 2 || !stored.UpdatedAt.Equal(today) {
		t.Fatalf("unexpected stored log: %+v", stored)
	}
}

func TestLog_FinishedSeasonNeverRefreshes(t *testing.T) {
	today := day(t, "2026-02-01")
	repo := memory.NewGameLogRepository()
	seed := storedLog(day(t, "2025-09-30"), gamelog.Entry{Date: "2025-09-28", Stats: map[string]any{"hits": 2.0}})
	if err := repo.Upsert(context.Background(), seed); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	statsProv := &fakeStatsProvider{}
	svc := newGameLogServiceForTest(repo, statsProv, today)

	if _, err := svc.Log(context.Background(), 101, 901, "Alpha One", stats.GroupHitting); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if statsProv.logCalls != 0 {
		t.Fatalf("finished season logs are final, got %d provider calls", statsProv.logCalls)
	}
}

func TestLog_ProviderDownServesStaleCopy(t *testing.T) {
	today := day(t, "2025-06-10")
	repo := memory.NewGameLogRepository()
	seed := storedLog(day(t, "2025-06-09"), gamelog.Entry{Date: "2025-06-08", Stats: map[string]any{"hits": 1.0}})
	if err := repo.Upsert(context.Background(), seed); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	statsProv := &fakeStatsProvider{logErrs: map[int64]error{901: fmt.Errorf("timeout")}}
	svc := newGameLogServiceForTest(repo, statsProv, today)

	entries, err := svc.Log(context.Background(), 101, 901, "Alpha One", stats.GroupHitting)
	if err != nil {
		t.Fatalf("stale copy must cover a provider outage: %v", err)
	}
	if len(entries) != 1 || entries[0].Date != "2025-06-08" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestLog_FailureIsNotCached(t *testing.T) {
	today := day(t, "2025-06-10")
	repo := memory.NewGameLogRepository()
	statsProv := &fakeStatsProvider{
		logErrs: map[int64]error{901: fmt.Errorf("timeout")},
		logs: map[int64]map[stats.Group][]gamelog.Entry{
			901: {stats.GroupHitting: {{Date: "2025-06-09", Stats: map[string]any{"hits": 2.0}}}},
		},
	}
	svc := newGameLogServiceForTest(repo, statsProv, today)

	if _, err := svc.Log(context.Background(), 101, 901, "Alpha One", stats.GroupHitting); err == nil {
		t.Fatalf("expected an error with no stored fallback")
	}

	statsProv.mu.Lock()
	delete(statsProv.logErrs, 901)
	statsProv.mu.Unlock()

	entries, err := svc.Log(context.Background(), 101, 901, "Alpha One", stats.GroupHitting)
	if err != nil {
		t.Fatalf("recovered provider must serve: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestPrefetch_WarmsTheMemo(t *testing.T) {
	today := day(t, "2025-06-10")
	repo := memory.NewGameLogRepository()
	statsProv := &fakeStatsProvider{
		logs: map[int64]map[stats.Group][]gamelog.Entry{
			901: {stats.GroupHitting: {{Date: "2025-06-09", Stats: map[string]any{"hits": 2.0}}}},
			902: {stats.GroupHitting: {{Date: "2025-06-09", Stats: map[string]any{"hits": 1.0}}}},
		},
	}
	svc := newGameLogServiceForTest(repo, statsProv, today)

	refs := []PlayerRef{
		{LeagueLocalID: 101, CanonicalID: 901, Name: "Alpha One"},
		{LeagueLocalID: 102, CanonicalID: 902, Name: "Beta Two"},
	}
	svc.Prefetch(context.Background(), refs, stats.GroupHitting, 2)

	before := statsProv.logCalls
	for _, ref := range refs {
		if _, err := svc.Log(context.Background(), ref.LeagueLocalID, ref.CanonicalID, ref.Name, stats.GroupHitting); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if statsProv.logCalls != before {
		t.Fatalf("prefetched logs must serve from memory, got %d extra calls", statsProv.logCalls-before)
	}
}

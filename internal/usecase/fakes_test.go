package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/roster"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
)

type fakeLineupProvider struct {
	mu sync.Mutex

	teamNames    map[int]string
	teamNamesErr error
	// rosters keyed by scoring period id.
	rosters    map[int]roster.DailyRoster
	rosterErrs map[int]error
	settings   LeagueSettings
	settingsErr error

	teamNameCalls int
	rosterCalls   int
	settingsCalls int
}

func (f *fakeLineupProvider) TeamNames(_ context.Context, _ int, _ LeagueCredentials) (map[int]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teamNameCalls++
	if f.teamNamesErr != nil {
		return nil, f.teamNamesErr
	}
	return f.teamNames, nil
}

func (f *fakeLineupProvider) DailyRoster(_ context.Context, _ int, _ LeagueCredentials, scoringPeriod int) (roster.DailyRoster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosterCalls++
	if err := f.rosterErrs[scoringPeriod]; err != nil {
		return nil, err
	}
	return f.rosters[scoringPeriod], nil
}

func (f *fakeLineupProvider) LeagueSettings(_ context.Context, _ int, _ LeagueCredentials) (LeagueSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settingsCalls++
	if f.settingsErr != nil {
		return LeagueSettings{}, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeLineupProvider) calls() (teamNames, rosters int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teamNameCalls, f.rosterCalls
}

type fakeStatsProvider struct {
	mu sync.Mutex

	idsByName map[string]int64
	searchErr error
	// logs keyed by canonical id, then group.
	logs    map[int64]map[stats.Group][]gamelog.Entry
	logErrs map[int64]error

	searchCalls int
	logCalls    int
}

func (f *fakeStatsProvider) SearchPlayerID(_ context.Context, name string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return 0, false, f.searchErr
	}
	id, ok := f.idsByName[name]
	return id, ok, nil
}

func (f *fakeStatsProvider) GameLog(_ context.Context, canonicalID int64, _ int, group stats.Group) ([]gamelog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCalls++
	if err := f.logErrs[canonicalID]; err != nil {
		return nil, err
	}
	byGroup, ok := f.logs[canonicalID]
	if !ok {
		return nil, fmt.Errorf("no log for player %d", canonicalID)
	}
	return byGroup[group], nil
}

// plainCipher is a reversible stand-in for the credential cipher.
type plainCipher struct{}

func (plainCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (plainCipher) Decrypt(encoded string) (string, error) {
	if len(encoded) < 4 || encoded[:4] != "enc:" {
		return "", fmt.Errorf("bad ciphertext %q", encoded)
	}
	return encoded[4:], nil
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

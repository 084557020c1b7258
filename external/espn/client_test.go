package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rosterwire/contest-engine/internal/platform/logging"
	"github.com/rosterwire/contest-engine/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Season:     2025,
		Logger:     logging.NewNop(),
	})
}

func TestTeamNames_FallbackChain(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("view"); got != "mTeam" {
			t.Errorf("unexpected view: %q", got)
		}
		if r.URL.Path != "/seasons/2025/segments/0/leagues/42" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"teams":[
			{"id":1,"name":"King Hoser"},
			{"id":2,"location":"Bronx","nickname":"Bombers"},
			{"id":3}
		]}`))
	})

	names, err := client.TeamNames(context.Background(), 42, usecase.LeagueCredentials{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names[1] != "King Hoser" {
		t.Fatalf("unexpected name for team 1: %q", names[1])
	}
	if names[2] != "Bronx Bombers" {
		t.Fatalf("unexpected name for team 2: %q", names[2])
	}
	if names[3] != "Team 3" {
		t.Fatalf("unexpected name for team 3: %q", names[3])
	}
}

func TestTeamNames_SendsCredentialCookies(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		s2, err := r.Cookie("espn_s2")
		if err != nil || s2.Value != "secret-s2" {
			t.Errorf("missing espn_s2 cookie")
		}
		swid, err := r.Cookie("swid")
		if err != nil || swid.Value != "{SWID}" {
			t.Errorf("missing swid cookie")
		}
		if r.Header.Get("User-Agent") == "" || r.Header.Get("User-Agent") == "Go-http-client/1.1" {
			t.Errorf("expected browser user agent, got %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(`{"teams":[]}`))
	})

	_, err := client.TeamNames(context.Background(), 42, usecase.LeagueCredentials{S2: "secret-s2", SWID: "{SWID}"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDailyRoster(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("scoringPeriodId"); got != "17" {
			t.Errorf("unexpected scoring period: %q", got)
		}
		_, _ = w.Write([]byte(`{"teams":[
			{"id":1,"roster":{"entries":[
				{"playerId":100,"lineupSlotId":4,"playerPoolEntry":{"player":{"fullName":"A Hitter"}}},
				{"playerId":200,"lineupSlotId":14,"playerPoolEntry":{"player":{"fullName":"A Pitcher"}}}
			]}}
		]}`))
	})

	daily, err := client.DailyRoster(context.Background(), 42, usecase.LeagueCredentials{}, 17)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(daily) != 1 || len(daily[0].Entries) != 2 {
		t.Fatalf("unexpected roster shape: %+v", daily)
	}
	if daily[0].Entries[1].PlayerID != 200 || daily[0].Entries[1].LineupSlot != 14 {
		t.Fatalf("unexpected entry: %+v", daily[0].Entries[1])
	}
}

func TestLeagueSettings_DerivesPitcherSlots(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("view"); got != "mSettings" {
			t.Errorf("unexpected view: %q", got)
		}
		_, _ = w.Write([]byte(`{"settings":{
			"name":"Brew Crew",
			"rosterSettings":{"lineupSlotCounts":{"0":1,"13":5,"14":0,"15":2,"16":3}}
		}}`))
	})

	settings, err := client.LeagueSettings(context.Background(), 42, usecase.LeagueCredentials{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Name != "Brew Crew" {
		t.Fatalf("unexpected name: %q", settings.Name)
	}
	slots := map[int]bool{}
	for _, s := range settings.PitcherSlots {
		slots[s] = true
	}
	if !slots[13] || !slots[15] || slots[14] || slots[16] {
		t.Fatalf("unexpected pitcher slots: %v", settings.PitcherSlots)
	}
}

func TestDoJSON_RejectedCredentials(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.TeamNames(context.Background(), 42, usecase.LeagueCredentials{S2: "bad", SWID: "bad"})
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

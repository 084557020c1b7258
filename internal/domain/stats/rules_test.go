package stats

import (
	"math"
	"testing"
)

func TestParseCategory(t *testing.T) {
	c, err := Parse(" runs scored ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != RunsScored {
		t.Fatalf("unexpected category: got=%q want=%q", c, RunsScored)
	}

	if _, err := Parse("BATTING AVERAGE"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestCategoryTraits(t *testing.T) {
	if got := len(All()); got != 20 {
		t.Fatalf("unexpected category count: got=%d want=20", got)
	}
	if OBP.Group() != GroupHitting || OBP.Kind() != KindRatio {
		t.Fatal("OBP should be a hitting ratio")
	}
	if Saves.Group() != GroupPitching || Saves.Kind() != KindCounting {
		t.Fatal("SAVES should be a pitching counter")
	}
	for _, c := range []Category{HitsAllowed, ERA, WalksAllowed, WHIP} {
		if !c.LowerIsBetter() {
			t.Fatalf("category %q should rank ascending", c)
		}
	}
	if Strikeouts.LowerIsBetter() {
		t.Fatal("STRIKEOUTS should rank descending")
	}
}

func TestRatioAccumulation(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		lines    []Line
		wantNum  float64
		wantDen  float64
	}{
		{
			name:     "obp counts walks and hbp",
			category: OBP,
			lines: []Line{
				{"hits": 2, "baseOnBalls": 1, "hitByPitch": 1, "atBats": 4, "sacFlies": 0},
			},
			wantNum: 4,
			wantDen: 6,
		},
		{
			name:     "avg divides hits by at bats",
			category: AVG,
			lines: []Line{
				{"hits": 1, "atBats": 3},
				{"hits": 2, "atBats": 5},
			},
			wantNum: 3,
			wantDen: 8,
		},
		{
			name:     "slugging counts total bases",
			category: Slugging,
			lines: []Line{
				{"totalBases": 7, "atBats": 4},
			},
			wantNum: 7,
			wantDen: 4,
		},
		{
			name:     "era scales earned runs by nine",
			category: ERA,
			lines: []Line{
				{"earnedRuns": 3, "inningsPitched": 6},
			},
			wantNum: 27,
			wantDen: 6,
		},
		{
			name:     "whip adds hits and walks over innings",
			category: WHIP,
			lines: []Line{
				{"hits": 5, "baseOnBalls": 2, "inningsPitched": 7},
			},
			wantNum: 7,
			wantDen: 7,
		},
		{
			name:     "kbb has no innings gate",
			category: StrikeoutToWalk,
			lines: []Line{
				{"strikeOuts": 8, "baseOnBalls": 2},
			},
			wantNum: 8,
			wantDen: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := RuleFor(tc.category)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var totals Totals
			for _, line := range tc.lines {
				if err := rule.Apply(&totals, line); err != nil {
					t.Fatalf("unexpected guard failure: %v", err)
				}
			}
			if totals.Num != tc.wantNum || totals.Den != tc.wantDen {
				t.Fatalf("unexpected totals: got=%+v want num=%v den=%v", totals, tc.wantNum, tc.wantDen)
			}
		})
	}
}

func TestRatioGuards(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		line     Line
	}{
		{"obp hits above at bats", OBP, Line{"hits": 5, "atBats": 4}},
		{"avg hits above at bats", AVG, Line{"hits": 3, "atBats": 2}},
		{"slugging bases above maximum", Slugging, Line{"totalBases": 17, "atBats": 4}},
		{"era negative earned runs", ERA, Line{"earnedRuns": -1, "inningsPitched": 5}},
		{"whip negative walks", WHIP, Line{"hits": 1, "baseOnBalls": -2, "inningsPitched": 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := RuleFor(tc.category)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var totals Totals
			if err := rule.Apply(&totals, tc.line); err == nil {
				t.Fatal("expected guard failure")
			}
			if totals.Num != 0 || totals.Den != 0 {
				t.Fatalf("guard failure must not accumulate: %+v", totals)
			}
		})
	}
}

func TestRatioSkipsEmptyAppearance(t *testing.T) {
	rule, err := RuleFor(OBP)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var totals Totals
	if err := rule.Apply(&totals, Line{"hits": 0, "atBats": 0}); err != nil {
		t.Fatalf("zero plate appearances should not fail the guard: %v", err)
	}
	if totals.Num != 0 || totals.Den != 0 {
		t.Fatalf("zero plate appearances should not accumulate: %+v", totals)
	}
}

func TestCountingAccumulation(t *testing.T) {
	rule, err := RuleFor(SavesPlusHolds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var totals Totals
	_ = rule.Apply(&totals, Line{"saves": 1, "holds": 2})
	_ = rule.Apply(&totals, Line{"saves": 0, "holds": 1})
	if totals.Total != 4 {
		t.Fatalf("unexpected total: got=%v want=4", totals.Total)
	}
}

func TestFinalize(t *testing.T) {
	if got := Finalize(ERA, Totals{Num: 81, Den: 9}); got != 9 {
		t.Fatalf("unexpected era: got=%v want=9", got)
	}
	if got := Finalize(HomeRuns, Totals{Total: 12}); got != 12 {
		t.Fatalf("unexpected total: got=%v want=12", got)
	}
	if got := Finalize(WHIP, Totals{Num: 3, Den: 0}); got != UndefinedRatio {
		t.Fatalf("expected undefined ratio sentinel, got=%v", got)
	}
	if got := Finalize(WHIP, Totals{}); got != 0 {
		t.Fatalf("expected zero for empty totals, got=%v", got)
	}
}

func TestParseInnings(t *testing.T) {
	tests := []struct {
		raw  any
		want float64
	}{
		{"6.2", 6 + 2.0/3},
		{"7", 7},
		{"0.1", 1.0 / 3},
		{7.0, 7},
		{"junk", 0},
		{nil, 0},
	}
	for _, tc := range tests {
		if got := ParseInnings(tc.raw); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseInnings(%v): got=%v want=%v", tc.raw, got, tc.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(AVG, 0.25); got != "0.2500" {
		t.Fatalf("unexpected ratio format: %q", got)
	}
	if got := FormatValue(InningsPitched, 6+2.0/3); got != "6.2" {
		t.Fatalf("unexpected innings format: %q", got)
	}
	if got := FormatValue(HomeRuns, 12); got != "12" {
		t.Fatalf("unexpected counting format: %q", got)
	}
}

func TestFoldEntries(t *testing.T) {
	line, anomalies := FoldEntries([]map[string]any{
		{"hits": 2.0, "inningsPitched": "5.1", "homeRuns": 1.0},
		{"hits": 1.0, "inningsPitched": "1.2", "homeRuns": "solo HR in the 9th"},
	})
	if line["hits"] != 3 {
		t.Fatalf("unexpected hits: got=%v want=3", line["hits"])
	}
	if math.Abs(line["inningsPitched"]-7) > 1e-9 {
		t.Fatalf("unexpected innings: got=%v want=7", line["inningsPitched"])
	}
	if line["homeRuns"] != 2 {
		t.Fatalf("marker string should count one home run: got=%v", line["homeRuns"])
	}
	if len(anomalies) != 1 || anomalies[0].Key != "homeRuns" || anomalies[0].Used != 1 {
		t.Fatalf("unexpected anomalies: %+v", anomalies)
	}
}

func TestFoldEntriesDegradesUnknownMarkers(t *testing.T) {
	line, anomalies := FoldEntries([]map[string]any{
		{"rbi": "2-run RBI double", "stolenBases": "caught"},
	})
	if line["rbi"] != 1 {
		t.Fatalf("rbi marker should count one: got=%v", line["rbi"])
	}
	if line["stolenBases"] != 0 {
		t.Fatalf("unknown marker should count zero: got=%v", line["stolenBases"])
	}
	if len(anomalies) != 2 {
		t.Fatalf("expected two anomalies, got %d", len(anomalies))
	}
}

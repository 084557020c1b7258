package stats

import (
	"fmt"
	"strings"
)

// Group splits categories by the game-log feed they read from.
type Group string

const (
	GroupHitting  Group = "hitting"
	GroupPitching Group = "pitching"
)

// Kind describes how a category accumulates across player-days.
type Kind int

const (
	// KindCounting keeps a single running total.
	KindCounting Kind = iota
	// KindRatio keeps a numerator and denominator and divides only at the end.
	KindRatio
)

// Category is a contest stat category. Values match the display names used by
// the lineup provider's category picker, spaces included.
type Category string

const (
	OBP             Category = "OBP"
	HomeRuns        Category = "HR"
	RBI             Category = "RBI"
	AVG             Category = "AVG"
	Hits            Category = "HITS"
	RunsScored      Category = "RUNS SCORED"
	Walks           Category = "WALKS"
	StolenBases     Category = "STOLEN BASES"
	Slugging        Category = "SLUGGING PERCENTAGE"
	InningsPitched  Category = "INNINGS PITCHED"
	HitsAllowed     Category = "HITS ALLOWED"
	ERA             Category = "ERA"
	WalksAllowed    Category = "WALKS ALLOWED"
	Strikeouts      Category = "STRIKEOUTS"
	QualityStarts   Category = "QUALITY STARTS"
	Wins            Category = "WINS"
	Saves           Category = "SAVES"
	SavesPlusHolds  Category = "SAVES + HOLDS"
	WHIP            Category = "WHIP"
	StrikeoutToWalk Category = "K/BB"
)

type traits struct {
	group         Group
	kind          Kind
	lowerIsBetter bool
}

var categories = map[Category]traits{
	OBP:             {group: GroupHitting, kind: KindRatio},
	HomeRuns:        {group: GroupHitting, kind: KindCounting},
	RBI:             {group: GroupHitting, kind: KindCounting},
	AVG:             {group: GroupHitting, kind: KindRatio},
	Hits:            {group: GroupHitting, kind: KindCounting},
	RunsScored:      {group: GroupHitting, kind: KindCounting},
	Walks:           {group: GroupHitting, kind: KindCounting},
	StolenBases:     {group: GroupHitting, kind: KindCounting},
	Slugging:        {group: GroupHitting, kind: KindRatio},
	InningsPitched:  {group: GroupPitching, kind: KindCounting},
	HitsAllowed:     {group: GroupPitching, kind: KindCounting, lowerIsBetter: true},
	ERA:             {group: GroupPitching, kind: KindRatio, lowerIsBetter: true},
	WalksAllowed:    {group: GroupPitching, kind: KindCounting, lowerIsBetter: true},
	Strikeouts:      {group: GroupPitching, kind: KindCounting},
	QualityStarts:   {group: GroupPitching, kind: KindCounting},
	Wins:            {group: GroupPitching, kind: KindCounting},
	Saves:           {group: GroupPitching, kind: KindCounting},
	SavesPlusHolds:  {group: GroupPitching, kind: KindCounting},
	WHIP:            {group: GroupPitching, kind: KindRatio, lowerIsBetter: true},
	StrikeoutToWalk: {group: GroupPitching, kind: KindRatio},
}

// ordered keeps listing output stable for pickers and error messages.
var ordered = []Category{
	OBP, HomeRuns, RBI, AVG, Hits, RunsScored, Walks, StolenBases, Slugging,
	InningsPitched, HitsAllowed, ERA, WalksAllowed, Strikeouts, QualityStarts,
	Wins, Saves, SavesPlusHolds, WHIP, StrikeoutToWalk,
}

// Parse normalizes user input into a known category.
func Parse(raw string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("unknown stat category %q", raw)
	}
	return c, nil
}

// All returns every category in picker order.
func All() []Category {
	out := make([]Category, len(ordered))
	copy(out, ordered)
	return out
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Group reports which game-log feed the category reads from.
func (c Category) Group() Group {
	return categories[c].group
}

func (c Category) Kind() Kind {
	return categories[c].kind
}

// LowerIsBetter reports whether smaller values rank first.
func (c Category) LowerIsBetter() bool {
	return categories[c].lowerIsBetter
}

func (c Category) String() string {
	return string(c)
}

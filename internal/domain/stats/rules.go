package stats

import "fmt"

// Totals is one team's running accumulation for a category. Ratio categories
// use Num and Den, counting categories use Total. Division never happens
// before Finalize.
type Totals struct {
	Num   float64
	Den   float64
	Total float64
}

// UndefinedRatio stands in for a ratio whose denominator never moved off
// zero while the numerator did.
const UndefinedRatio = 999.0

// Rule folds player-day lines into team totals for one category.
type Rule struct {
	Category Category
	apply    func(t *Totals, l Line) error
}

// Apply folds one player-day line into the totals. A non-nil error means the
// line failed the category's sanity guard and contributed nothing.
func (r Rule) Apply(t *Totals, l Line) error {
	return r.apply(t, l)
}

// RuleFor resolves a category to its accumulation rule once per computation.
func RuleFor(c Category) (Rule, error) {
	apply, ok := rules[c]
	if !ok {
		return Rule{}, fmt.Errorf("unknown stat category %q", c)
	}
	return Rule{Category: c, apply: apply}, nil
}

// Finalize converts a team's totals into its comparable value.
func Finalize(c Category, t Totals) float64 {
	if c.Kind() != KindRatio {
		return t.Total
	}
	if t.Den > 0 {
		return t.Num / t.Den
	}
	if t.Num > 0 {
		return UndefinedRatio
	}
	return 0
}

var rules = map[Category]func(*Totals, Line) error{
	OBP: func(t *Totals, l Line) error {
		h, bb, hbp := l["hits"], l["baseOnBalls"], l["hitByPitch"]
		ab, sf := l["atBats"], l["sacFlies"]
		pa := ab + bb + hbp + sf
		if pa <= 0 {
			return nil
		}
		if h > ab {
			return fmt.Errorf("hits (%v) exceed at bats (%v)", h, ab)
		}
		t.Num += h + bb + hbp
		t.Den += pa
		return nil
	},
	AVG: func(t *Totals, l Line) error {
		h, bb, hbp := l["hits"], l["baseOnBalls"], l["hitByPitch"]
		ab, sf := l["atBats"], l["sacFlies"]
		pa := ab + bb + hbp + sf
		if pa <= 0 {
			return nil
		}
		if h > ab {
			return fmt.Errorf("hits (%v) exceed at bats (%v)", h, ab)
		}
		t.Num += h
		t.Den += ab
		return nil
	},
	Slugging: func(t *Totals, l Line) error {
		tb := l["totalBases"]
		ab, bb, hbp, sf := l["atBats"], l["baseOnBalls"], l["hitByPitch"], l["sacFlies"]
		pa := ab + bb + hbp + sf
		if pa <= 0 {
			return nil
		}
		if tb > 4*ab {
			return fmt.Errorf("total bases (%v) exceed four times at bats (%v)", tb, ab)
		}
		t.Num += tb
		t.Den += ab
		return nil
	},
	ERA: func(t *Totals, l Line) error {
		er, ip := l["earnedRuns"], l["inningsPitched"]
		if ip <= 0 {
			return nil
		}
		if er < 0 {
			return fmt.Errorf("earned runs (%v) below zero", er)
		}
		t.Num += er * 9
		t.Den += ip
		return nil
	},
	WHIP: func(t *Totals, l Line) error {
		h, bb, ip := l["hits"], l["baseOnBalls"], l["inningsPitched"]
		if ip <= 0 {
			return nil
		}
		if h < 0 || bb < 0 {
			return fmt.Errorf("hits (%v) or walks (%v) below zero", h, bb)
		}
		t.Num += h + bb
		t.Den += ip
		return nil
	},
	StrikeoutToWalk: func(t *Totals, l Line) error {
		t.Num += l["strikeOuts"]
		t.Den += l["baseOnBalls"]
		return nil
	},

	HomeRuns:       counting("homeRuns"),
	RBI:            counting("rbi"),
	Hits:           counting("hits"),
	RunsScored:     counting("runs"),
	Walks:          counting("baseOnBalls"),
	StolenBases:    counting("stolenBases"),
	InningsPitched: counting("inningsPitched"),
	HitsAllowed:    counting("hits"),
	WalksAllowed:   counting("baseOnBalls"),
	Strikeouts:     counting("strikeOuts"),
	QualityStarts:  counting("qualityStarts"),
	Wins:           counting("wins"),
	Saves:          counting("saves"),
	SavesPlusHolds: func(t *Totals, l Line) error {
		t.Total += l["saves"] + l["holds"]
		return nil
	},
}

func counting(key string) func(*Totals, Line) error {
	return func(t *Totals, l Line) error {
		t.Total += l[key]
		return nil
	}
}

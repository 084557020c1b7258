package season

import "time"

// Season pins the scoring calendar for one year: the first scoring day, and
// the mid-season break during which no games are played.
type Season struct {
	Year       int
	Start      time.Time
	BreakStart time.Time
	BreakEnd   time.Time
}

// Default returns the calendar used when config does not override it. The
// schedule opens March 18 and the break covers July 14 through 17.
func Default(year int) Season {
	return Season{
		Year:       year,
		Start:      time.Date(year, time.March, 18, 0, 0, 0, 0, time.UTC),
		BreakStart: time.Date(year, time.July, 14, 0, 0, 0, 0, time.UTC),
		BreakEnd:   time.Date(year, time.July, 17, 0, 0, 0, 0, time.UTC),
	}
}

// ScoringPeriod maps a calendar day to the lineup provider's 1-based
// scoring period id.
func (s Season) ScoringPeriod(day time.Time) int {
	return int(day.Sub(s.Start).Hours()/24) + 1
}

// InBreak reports whether the day falls inside the mid-season break.
func (s Season) InBreak(day time.Time) bool {
	return !day.Before(s.BreakStart) && !day.After(s.BreakEnd)
}

// Over reports whether the season's final calendar year day has passed.
func (s Season) Over(today time.Time) bool {
	return today.Year() > s.Year
}

package contest

import (
	"fmt"
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/stats"
)

// Contest pits every team of a league against each other over one stat
// category and an inclusive date range.
type Contest struct {
	ID        string
	LeagueID  string
	Category  stats.Category
	StartDate time.Time
	EndDate   time.Time
	Title     string
	CreatedAt time.Time
}

func (c Contest) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("contest id is required")
	}
	if c.LeagueID == "" {
		return fmt.Errorf("league id is required")
	}
	if !c.Category.Valid() {
		return fmt.Errorf("unknown stat category %q", c.Category)
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return fmt.Errorf("contest dates are required")
	}
	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	return nil
}

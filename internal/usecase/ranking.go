package usecase

import (
	"sort"

	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
)

// sortRankings orders teams best-first for the category. Equal values break
// ties by team name so identical inputs always produce identical output.
func sortRankings(rankings []snapshot.TeamValue, category stats.Category) {
	ascending := category.LowerIsBetter()
	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Value != rankings[j].Value {
			if ascending {
				return rankings[i].Value < rankings[j].Value
			}
			return rankings[i].Value > rankings[j].Value
		}
		return rankings[i].Team < rankings[j].Team
	})
}

// winners lists every team tied at the top value of a sorted ranking. An
// empty ranking yields an empty, non-nil list.
func winners(rankings []snapshot.TeamValue) []string {
	out := []string{}
	if len(rankings) == 0 {
		return out
	}
	top := rankings[0].Value
	for _, r := range rankings {
		if r.Value != top {
			break
		}
		out = append(out, r.Team)
	}
	return out
}

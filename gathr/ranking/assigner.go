package ranking

import "sort"

// ScoredUser is the calculator's output for one user.
type ScoredUser struct {
	UserID int64
	Score  float64
}

// RankedUser is a scored user with its final 1-based rank.
type RankedUser struct {
	UserID int64
	Score  float64
	Rank   int
}

// AssignRanks orders users by descending score and assigns dense 1-based
// ranks. Equal scores are broken by ascending user ID, so rank assignment is
// stable across runs over identical stats regardless of input order. Every
// entry gets a distinct rank, ties included: the tie-break decides who sits
// higher.
func AssignRanks(scored []ScoredUser) []RankedUser {
	if len(scored) == 0 {
		return nil
	}

	ordered := make([]ScoredUser, len(scored))
	copy(ordered, scored)

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].UserID < ordered[j].UserID
	})

	ranked := make([]RankedUser, len(ordered))
	for i, s := range ordered {
		ranked[i] = RankedUser{
			UserID: s.UserID,
			Score:  s.Score,
			Rank:   i + 1,
		}
	}
	return ranked
}

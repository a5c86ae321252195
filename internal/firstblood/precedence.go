package firstblood

import (
	"sort"

	"github.com/burakmert236/firstblood/common/models"
	"github.com/sourcegraph/conc/iter"
)

// ResolvePrecedence picks the earliest candidate per challenge. Equal
// timestamps go to the candidate that came first in the submissions
// collection. Winners are ordered by ascending challenge id.
func ResolvePrecedence(candidates []Candidate) []Candidate {
	best := make(map[models.ID]Candidate)
	for _, c := range candidates {
		current, ok := best[c.ChallengeID]
		if !ok || precedes(c, current) {
			best[c.ChallengeID] = c
		}
	}

	winners := make([]Candidate, 0, len(best))
	for _, c := range best {
		winners = append(winners, c)
	}
	sort.Slice(winners, func(i, j int) bool {
		return winners[i].ChallengeID < winners[j].ChallengeID
	})
	return winners
}

// ResolvePrecedenceParallel resolves each challenge group on a bounded
// pool of workers. The result equals ResolvePrecedence(candidates).
func ResolvePrecedenceParallel(candidates []Candidate, workers int) []Candidate {
	if workers <= 1 {
		return ResolvePrecedence(candidates)
	}

	groups := groupByChallenge(candidates)
	mapper := iter.Mapper[[]Candidate, Candidate]{MaxGoroutines: workers}
	return mapper.Map(groups, func(group *[]Candidate) Candidate {
		return earliest(*group)
	})
}

// groupByChallenge splits candidates into non-empty groups ordered by
// challenge id, preserving input order inside each group.
func groupByChallenge(candidates []Candidate) [][]Candidate {
	index := make(map[models.ID]int)
	var groups [][]Candidate
	for _, c := range candidates {
		i, ok := index[c.ChallengeID]
		if !ok {
			i = len(groups)
			index[c.ChallengeID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], c)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0].ChallengeID < groups[j][0].ChallengeID
	})
	return groups
}

func earliest(group []Candidate) Candidate {
	winner := group[0]
	for _, c := range group[1:] {
		if precedes(c, winner) {
			winner = c
		}
	}
	return winner
}

func precedes(a, b Candidate) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.Index < b.Index
}

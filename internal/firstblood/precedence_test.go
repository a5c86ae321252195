package firstblood

import (
	"testing"
	"time"

	"github.com/burakmert236/firstblood/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(minute int) time.Time {
	return time.Date(2024, 1, 1, 9, minute, 0, 0, time.UTC)
}

func TestResolvePrecedencePicksEarliest(t *testing.T) {
	candidates := []Candidate{
		{Index: 0, ChallengeID: 1, TeamID: 20, Date: at(30)},
		{Index: 1, ChallengeID: 1, TeamID: 10, Date: at(10)},
		{Index: 2, ChallengeID: 1, TeamID: 30, Date: at(20)},
	}

	winners := ResolvePrecedence(candidates)

	require.Len(t, winners, 1)
	assert.Equal(t, models.ID(10), winners[0].TeamID)
}

func TestResolvePrecedenceTieGoesToFirstSubmission(t *testing.T) {
	candidates := []Candidate{
		{Index: 5, ChallengeID: 1, TeamID: 20, Date: at(10)},
		{Index: 3, ChallengeID: 1, TeamID: 30, Date: at(10)},
		{Index: 7, ChallengeID: 1, TeamID: 10, Date: at(10)},
	}

	for _, workers := range []int{1, 3} {
		winners := ResolvePrecedenceParallel(candidates, workers)
		require.Len(t, winners, 1)
		assert.Equal(t, models.ID(30), winners[0].TeamID, "workers=%d", workers)
	}
}

func TestResolvePrecedenceComparesInstantsAcrossZones(t *testing.T) {
	plusOne := time.FixedZone("CET", 3600)
	candidates := []Candidate{
		{Index: 0, ChallengeID: 1, TeamID: 10, Date: time.Date(2024, 1, 1, 10, 0, 0, 0, plusOne)},
		{Index: 1, ChallengeID: 1, TeamID: 20, Date: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)},
	}

	winners := ResolvePrecedence(candidates)

	require.Len(t, winners, 1)
	assert.Equal(t, models.ID(10), winners[0].TeamID)
}

func TestResolvePrecedenceEmpty(t *testing.T) {
	assert.Empty(t, ResolvePrecedence(nil))
	assert.Empty(t, ResolvePrecedenceParallel(nil, 4))
}

// Winners carry the minimum timestamp of their challenge and there is
// exactly one per challenge that has candidates.
func TestResolvePrecedenceProperties(t *testing.T) {
	ds := largeDataset()
	candidates := FilterEligible(ds.Submissions, ds.Users, ds.Teams)
	winners := ResolvePrecedence(candidates)

	byChallenge := make(map[models.ID]Candidate)
	for _, w := range winners {
		_, dup := byChallenge[w.ChallengeID]
		require.False(t, dup, "challenge %d won twice", w.ChallengeID)
		byChallenge[w.ChallengeID] = w
	}

	for _, c := range candidates {
		w, ok := byChallenge[c.ChallengeID]
		require.True(t, ok, "challenge %d has candidates but no winner", c.ChallengeID)
		assert.False(t, c.Date.Before(w.Date))
		if c.Date.Equal(w.Date) {
			assert.LessOrEqual(t, w.Index, c.Index)
		}
	}

	for i := 1; i < len(winners); i++ {
		assert.Less(t, winners[i-1].ChallengeID, winners[i].ChallengeID)
	}
}

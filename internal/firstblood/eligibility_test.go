package firstblood

import (
	"testing"

	"github.com/burakmert236/firstblood/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterEligible(t *testing.T) {
	users := []models.User{
		user(1, "ok", 10, false, false),
		user(2, "banned", 10, true, false),
		user(3, "hidden", 10, false, true),
		{ID: idp(4), Name: strp("no-status"), TeamID: idp(10)},
	}
	teams := []models.Team{
		team(10, "Alpha", false),
		team(20, "Banned", true),
	}

	tests := []struct {
		name string
		sub  models.Submission
		keep bool
	}{
		{"eligible correct", correct(1, 1, 10, 1, "2024-01-01T00:00:00Z"), true},
		{"incorrect", submission(2, 1, 10, 1, models.SubmissionIncorrect, "2024-01-01T00:00:00Z"), false},
		{"other type", submission(3, 1, 10, 1, "discard", "2024-01-01T00:00:00Z"), false},
		{"banned user", correct(4, 2, 10, 1, "2024-01-01T00:00:00Z"), false},
		{"hidden user", correct(5, 3, 10, 1, "2024-01-01T00:00:00Z"), false},
		{"user missing status", correct(6, 4, 10, 1, "2024-01-01T00:00:00Z"), false},
		{"banned team", correct(7, 1, 20, 1, "2024-01-01T00:00:00Z"), false},
		{"dangling user", correct(8, 42, 10, 1, "2024-01-01T00:00:00Z"), false},
		{"dangling team", correct(9, 1, 42, 1, "2024-01-01T00:00:00Z"), false},
		{"missing date", models.Submission{UserID: idp(1), TeamID: idp(10), ChallengeID: idp(1), Type: strp("correct")}, false},
		{"missing team", models.Submission{UserID: idp(1), ChallengeID: idp(1), Type: strp("correct"), Date: tsp("2024-01-01T00:00:00Z")}, false},
		{"missing type", models.Submission{UserID: idp(1), TeamID: idp(10), ChallengeID: idp(1), Date: tsp("2024-01-01T00:00:00Z")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEligible([]models.Submission{tt.sub}, users, teams)
			if tt.keep {
				require.Len(t, got, 1)
				assert.Equal(t, 0, got[0].Index)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterEligibleKeepsOriginalIndex(t *testing.T) {
	ds := exampleDataset()
	ds.Submissions = append([]models.Submission{
		submission(9, 100, 10, 1, models.SubmissionIncorrect, "2024-01-01T08:00:00Z"),
	}, ds.Submissions...)

	got := FilterEligible(ds.Submissions, ds.Users, ds.Teams)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
}

func TestFilterEligibleDoesNotMutateInputs(t *testing.T) {
	ds := largeDataset()
	before := largeDataset()

	FilterEligible(ds.Submissions, ds.Users, ds.Teams)

	assert.Equal(t, before, ds)
}

// Excluding more users can only shrink the candidate set of every challenge.
func TestFilterEligibleMonotone(t *testing.T) {
	ds := largeDataset()
	baseline := candidateSets(FilterEligible(ds.Submissions, ds.Users, ds.Teams))

	for i := range ds.Users {
		stricter := make([]models.User, len(ds.Users))
		copy(stricter, ds.Users)
		stricter[i].Banned = flagp(true)

		got := candidateSets(FilterEligible(ds.Submissions, stricter, ds.Teams))
		for challengeID, set := range got {
			for idx := range set {
				assert.Contains(t, baseline[challengeID], idx, "user %d challenge %d", i, challengeID)
			}
		}
	}
}

func candidateSets(candidates []Candidate) map[models.ID]map[int]struct{} {
	sets := make(map[models.ID]map[int]struct{})
	for _, c := range candidates {
		if sets[c.ChallengeID] == nil {
			sets[c.ChallengeID] = make(map[int]struct{})
		}
		sets[c.ChallengeID][c.Index] = struct{}{}
	}
	return sets
}

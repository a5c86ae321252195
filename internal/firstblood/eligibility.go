package firstblood

import "github.com/burakmert236/firstblood/common/models"

// FilterEligible keeps the correct submissions whose user and team both
// exist and are not excluded. References to unknown users or teams fail
// closed.
func FilterEligible(submissions []models.Submission, users []models.User, teams []models.Team) []Candidate {
	return filterEligible(submissions, users, teams, &Stats{})
}

func filterEligible(submissions []models.Submission, users []models.User, teams []models.Team, stats *Stats) []Candidate {
	knownUsers, excludedUsers := userIndex(users)
	knownTeams, excludedTeams := teamIndex(teams)

	stats.Submissions += len(submissions)

	candidates := make([]Candidate, 0, len(submissions))
	for i, s := range submissions {
		if s.Type == nil {
			stats.MissingFields++
			continue
		}
		if !s.IsCorrect() {
			stats.Incorrect++
			continue
		}
		if s.UserID == nil || s.TeamID == nil || s.ChallengeID == nil || s.Date == nil {
			stats.MissingFields++
			continue
		}

		userID, teamID := *s.UserID, *s.TeamID
		if _, ok := knownUsers[userID]; !ok {
			stats.Dangling++
			continue
		}
		if _, ok := knownTeams[teamID]; !ok {
			stats.Dangling++
			continue
		}
		if _, ok := excludedUsers[userID]; ok {
			stats.ExcludedUser++
			continue
		}
		if _, ok := excludedTeams[teamID]; ok {
			stats.ExcludedTeam++
			continue
		}

		candidates = append(candidates, Candidate{
			Index:        i,
			SubmissionID: s.ID,
			UserID:       userID,
			TeamID:       teamID,
			ChallengeID:  *s.ChallengeID,
			Date:         s.Date.Time,
		})
	}

	stats.Candidates += len(candidates)
	return candidates
}

// userIndex returns every user id present and the ids held by at least one
// ineligible record.
func userIndex(users []models.User) (known, excluded map[models.ID]struct{}) {
	known = make(map[models.ID]struct{}, len(users))
	excluded = make(map[models.ID]struct{})
	for _, u := range users {
		if u.ID == nil {
			continue
		}
		known[*u.ID] = struct{}{}
		if !u.Eligible() {
			excluded[*u.ID] = struct{}{}
		}
	}
	return known, excluded
}

func teamIndex(teams []models.Team) (known, excluded map[models.ID]struct{}) {
	known = make(map[models.ID]struct{}, len(teams))
	excluded = make(map[models.ID]struct{})
	for _, t := range teams {
		if t.ID == nil {
			continue
		}
		known[*t.ID] = struct{}{}
		if !t.Eligible() {
			excluded[*t.ID] = struct{}{}
		}
	}
	return known, excluded
}

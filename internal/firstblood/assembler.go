package firstblood

import "github.com/burakmert236/firstblood/common/models"

// AssembleRecords joins winners with challenge and team names. A winner
// whose challenge or team has no name on record is dropped. Rosters list
// the team's eligible users in collection order.
func AssembleRecords(winners []Candidate, challenges []models.Challenge, teams []models.Team, users []models.User) []models.AwardRecord {
	return assembleRecords(winners, challenges, teams, users, &Stats{})
}

func assembleRecords(winners []Candidate, challenges []models.Challenge, teams []models.Team, users []models.User, stats *Stats) []models.AwardRecord {
	challengeNames := challengeNameIndex(challenges)
	teamNames := teamNameIndex(teams)
	rosters := rosterIndex(users)

	records := make([]models.AwardRecord, 0, len(winners))
	for _, w := range winners {
		challengeName, ok := challengeNames[w.ChallengeID]
		if !ok {
			stats.DroppedJoins++
			continue
		}
		teamName, ok := teamNames[w.TeamID]
		if !ok {
			stats.DroppedJoins++
			continue
		}

		members := make([]string, 0, len(rosters[w.TeamID]))
		members = append(members, rosters[w.TeamID]...)

		records = append(records, models.AwardRecord{
			ChallengeName: challengeName,
			TeamName:      teamName,
			TeamMembers:   members,
		})
	}

	stats.Records += len(records)
	return records
}

// The first record carrying a given id wins; later duplicates are ignored.

func challengeNameIndex(challenges []models.Challenge) map[models.ID]string {
	names := make(map[models.ID]string, len(challenges))
	for _, c := range challenges {
		if c.ID == nil || c.Name == nil {
			continue
		}
		if _, seen := names[*c.ID]; !seen {
			names[*c.ID] = *c.Name
		}
	}
	return names
}

func teamNameIndex(teams []models.Team) map[models.ID]string {
	names := make(map[models.ID]string, len(teams))
	for _, t := range teams {
		if t.ID == nil || t.Name == nil {
			continue
		}
		if _, seen := names[*t.ID]; !seen {
			names[*t.ID] = *t.Name
		}
	}
	return names
}

func rosterIndex(users []models.User) map[models.ID][]string {
	rosters := make(map[models.ID][]string)
	for _, u := range users {
		if u.TeamID == nil || u.Name == nil || !u.Eligible() {
			continue
		}
		rosters[*u.TeamID] = append(rosters[*u.TeamID], *u.Name)
	}
	return rosters
}

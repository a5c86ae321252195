package firstblood

import (
	"time"

	"github.com/burakmert236/firstblood/common/models"
)

func idp(v int64) *models.ID {
	id := models.ID(v)
	return &id
}

func strp(s string) *string {
	return &s
}

func flagp(b bool) *models.Flag {
	f := models.Flag(b)
	return &f
}

func tsp(s string) *models.Timestamp {
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return &ts
}

func user(id int64, name string, team int64, banned, hidden bool) models.User {
	return models.User{
		ID:     idp(id),
		Name:   strp(name),
		Banned: flagp(banned),
		Hidden: flagp(hidden),
		TeamID: idp(team),
	}
}

func team(id int64, name string, banned bool) models.Team {
	return models.Team{ID: idp(id), Name: strp(name), Banned: flagp(banned)}
}

func challenge(id int64, name string) models.Challenge {
	return models.Challenge{ID: idp(id), Name: strp(name)}
}

func submission(id, userID, teamID, challengeID int64, kind, date string) models.Submission {
	return models.Submission{
		ID:          idp(id),
		UserID:      idp(userID),
		TeamID:      idp(teamID),
		ChallengeID: idp(challengeID),
		Type:        strp(kind),
		Date:        tsp(date),
	}
}

func correct(id, userID, teamID, challengeID int64, date string) models.Submission {
	return submission(id, userID, teamID, challengeID, models.SubmissionCorrect, date)
}

// exampleDataset is the two-team, one-challenge scenario: Beta submits at
// 10:00, Alpha at 09:00.
func exampleDataset() Dataset {
	return Dataset{
		Challenges: []models.Challenge{challenge(1, "pwn1")},
		Teams: []models.Team{
			team(10, "Alpha", false),
			team(20, "Beta", false),
		},
		Users: []models.User{
			user(100, "alice", 10, false, false),
			user(200, "bob", 20, false, false),
		},
		Submissions: []models.Submission{
			correct(1, 200, 20, 1, "2024-01-01T10:00:00Z"),
			correct(2, 100, 10, 1, "2024-01-01T09:00:00Z"),
		},
	}
}

// largeDataset builds a deterministic export with several challenges,
// teams with banned and hidden members, and colliding timestamps.
func largeDataset() Dataset {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var ds Dataset
	for c := int64(1); c <= 12; c++ {
		ds.Challenges = append(ds.Challenges, challenge(c, "chall-"+models.ID(c).String()))
	}
	for t := int64(1); t <= 6; t++ {
		ds.Teams = append(ds.Teams, team(t*10, "team-"+models.ID(t).String(), t == 4))
		for m := int64(0); m < 3; m++ {
			uid := t*100 + m
			ds.Users = append(ds.Users, user(uid, "user-"+models.ID(uid).String(), t*10, m == 1 && t%2 == 0, m == 2 && t == 3))
		}
	}

	var sid int64
	for round := 0; round < 5; round++ {
		for c := int64(1); c <= 12; c++ {
			for t := int64(1); t <= 6; t++ {
				sid++
				uid := t*100 + int64(round%3)
				offset := time.Duration((c*7+t*13+int64(round)*5)%11) * time.Minute
				kind := models.SubmissionCorrect
				if (c+t+int64(round))%4 == 0 {
					kind = models.SubmissionIncorrect
				}
				ds.Submissions = append(ds.Submissions,
					submission(sid, uid, t*10, c, kind, base.Add(offset).Format(time.RFC3339)))
			}
		}
	}
	return ds
}

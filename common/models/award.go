package models

import (
	"fmt"
	"time"
)

// AwardRecord is one first blood entry of the published report.
type AwardRecord struct {
	ChallengeName string   `json:"challenge_name" dynamodbav:"challenge_name"`
	TeamName      string   `json:"team_name" dynamodbav:"team_name"`
	TeamMembers   []string `json:"team_members" dynamodbav:"team_members"`
}

// Report is one run's output together with its identity.
type Report struct {
	RunID       string
	Source      string
	GeneratedAt time.Time
	Awards      []AwardRecord
}

// AwardItem is the DynamoDB representation of an AwardRecord.
type AwardItem struct {
	RunID         string    `dynamodbav:"run_id"`
	Position      int       `dynamodbav:"position"`
	ChallengeName string    `dynamodbav:"challenge_name"`
	TeamName      string    `dynamodbav:"team_name"`
	TeamMembers   []string  `dynamodbav:"team_members"`
	GeneratedAt   time.Time `dynamodbav:"generated_at"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

// Key handlers

func ReportPK(runID string) string {
	return fmt.Sprintf("REPORT#%s", runID)
}

// AwardSK keeps report order when items are queried by sort key.
func AwardSK(position int) string {
	return fmt.Sprintf("AWARD#%06d", position)
}

func NewAwardItem(report *Report, position int) AwardItem {
	award := report.Awards[position]
	return AwardItem{
		RunID:         report.RunID,
		Position:      position,
		ChallengeName: award.ChallengeName,
		TeamName:      award.TeamName,
		TeamMembers:   award.TeamMembers,
		GeneratedAt:   report.GeneratedAt,
		PK:            ReportPK(report.RunID),
		SK:            AwardSK(position),
	}
}

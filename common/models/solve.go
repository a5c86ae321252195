package models

// Solve mirrors the solves table, which shares ids with correct submissions.
type Solve struct {
	ID          *ID        `json:"id"`
	UserID      *ID        `json:"user_id"`
	TeamID      *ID        `json:"team_id"`
	ChallengeID *ID        `json:"challenge_id"`
	Date        *Timestamp `json:"date"`
}

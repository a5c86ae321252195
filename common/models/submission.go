package models

const (
	SubmissionCorrect   = "correct"
	SubmissionIncorrect = "incorrect"
)

type Submission struct {
	ID          *ID        `json:"id"`
	UserID      *ID        `json:"user_id"`
	TeamID      *ID        `json:"team_id"`
	ChallengeID *ID        `json:"challenge_id"`
	Type        *string    `json:"type"`
	Date        *Timestamp `json:"date"`
}

func (s Submission) IsCorrect() bool {
	return s.Type != nil && *s.Type == SubmissionCorrect
}

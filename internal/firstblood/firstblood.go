package firstblood

import (
	"time"

	"github.com/burakmert236/firstblood/common/models"
)

// Dataset holds the five collections of a CTFd export.
type Dataset struct {
	Solves      []models.Solve
	Submissions []models.Submission
	Challenges  []models.Challenge
	Teams       []models.Team
	Users       []models.User
}

// Candidate is an eligible correct submission. Index is its position in
// the original submissions collection and breaks timestamp ties.
type Candidate struct {
	Index        int
	SubmissionID *models.ID
	UserID       models.ID
	TeamID       models.ID
	ChallengeID  models.ID
	Date         time.Time
}

// Stats counts what the pipeline kept and dropped along the way.
type Stats struct {
	Submissions   int `json:"submissions"`
	Incorrect     int `json:"incorrect"`
	MissingFields int `json:"missing_fields"`
	Dangling      int `json:"dangling_references"`
	ExcludedUser  int `json:"excluded_user"`
	ExcludedTeam  int `json:"excluded_team"`
	Candidates    int `json:"candidates"`
	Winners       int `json:"winners"`
	DroppedJoins  int `json:"dropped_joins"`
	Records       int `json:"records"`
}

type Result struct {
	Awards  []models.AwardRecord
	Winners []Candidate
	Stats   Stats
}

type options struct {
	workers int
}

type Option func(*options)

// WithWorkers resolves challenges with up to n goroutines. Output is
// identical to the serial path.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Compute runs the whole pipeline over ds.
func Compute(ds Dataset, opts ...Option) Result {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	var stats Stats
	candidates := filterEligible(ds.Submissions, ds.Users, ds.Teams, &stats)

	winners := ResolvePrecedenceParallel(candidates, o.workers)
	stats.Winners = len(winners)

	awards := assembleRecords(winners, ds.Challenges, ds.Teams, ds.Users, &stats)

	return Result{
		Awards:  awards,
		Winners: winners,
		Stats:   stats,
	}
}

// UnmatchedSolves returns the winners whose submission has no row in
// solves. An empty solves collection audits nothing.
func UnmatchedSolves(winners []Candidate, solves []models.Solve) []Candidate {
	if len(solves) == 0 {
		return nil
	}

	solved := make(map[models.ID]struct{}, len(solves))
	for _, s := range solves {
		if s.ID != nil {
			solved[*s.ID] = struct{}{}
		}
	}

	var unmatched []Candidate
	for _, w := range winners {
		if w.SubmissionID == nil {
			unmatched = append(unmatched, w)
			continue
		}
		if _, ok := solved[*w.SubmissionID]; !ok {
			unmatched = append(unmatched, w)
		}
	}
	return unmatched
}

package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/burakmert236/firstblood/common/logger"
	"github.com/burakmert236/firstblood/common/models"
	"github.com/burakmert236/firstblood/internal/firstblood"
	fberrors "github.com/burakmert236/firstblood/services/firstblood-service/internal/errors"
	"github.com/google/uuid"
)

type DatasetLoader interface {
	Load(ctx context.Context, source string) (firstblood.Dataset, error)
}

// ReportSink receives every generated report.
type ReportSink interface {
	Name() string
	Save(ctx context.Context, report *models.Report) error
}

type FirstBloodService interface {
	Generate(ctx context.Context, source string) (*models.Report, error)
	Publish(ctx context.Context, report *models.Report) error
}

type firstBloodService struct {
	loader  DatasetLoader
	sinks   []ReportSink
	workers int
	logger  *logger.Logger

	now   func() time.Time
	newID func() string
}

func NewFirstBloodService(
	loader DatasetLoader,
	sinks []ReportSink,
	workers int,
	logger *logger.Logger,
) FirstBloodService {
	return &firstBloodService{
		loader:  loader,
		sinks:   sinks,
		workers: workers,
		logger:  logger.With("component", "FirstBloodService"),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

func (s *firstBloodService) Generate(ctx context.Context, source string) (*models.Report, error) {
	s.logger.Info("Loading export", "source", source)

	ds, err := s.loader.Load(ctx, source)
	if err != nil {
		s.logger.Error("Failed to load export", "error", err, "source", source)
		return nil, fberrors.LoadExportError(source, err)
	}

	result := firstblood.Compute(ds, firstblood.WithWorkers(s.workers))

	for _, w := range firstblood.UnmatchedSolves(result.Winners, ds.Solves) {
		s.logger.Warn("First blood has no matching solve",
			"challenge_id", w.ChallengeID,
			"team_id", w.TeamID,
			"submission_index", w.Index,
		)
	}

	if result.Stats.Dangling > 0 {
		s.logger.Warn("Submissions reference unknown users or teams",
			"code", apperrors.CodeDanglingReference,
			"excluded", result.Stats.Dangling,
		)
	}

	s.logger.Info("First bloods resolved",
		"challenges", len(ds.Challenges),
		"submissions", result.Stats.Submissions,
		"candidates", result.Stats.Candidates,
		"winners", result.Stats.Winners,
		"records", result.Stats.Records,
	)
	s.logger.Debug("Pipeline stats", "stats", result.Stats)

	return &models.Report{
		RunID:       s.newID(),
		Source:      source,
		GeneratedAt: s.now(),
		Awards:      result.Awards,
	}, nil
}

// Publish hands the report to every sink in order. A failing sink does not
// stop the ones after it; all failures are returned together.
func (s *firstBloodService) Publish(ctx context.Context, report *models.Report) error {
	var errs []error

	for _, sink := range s.sinks {
		if err := sink.Save(ctx, report); err != nil {
			s.logger.Error("Failed to write report",
				"error", err,
				"sink", sink.Name(),
				"run_id", report.RunID,
			)
			errs = append(errs, fberrors.ReportSinkError(sink.Name(), err))
			continue
		}

		s.logger.Info("Report written",
			"sink", sink.Name(),
			"run_id", report.RunID,
			"awards", len(report.Awards),
		)
	}

	return errors.Join(errs...)
}

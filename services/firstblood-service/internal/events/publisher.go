package events

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/burakmert236/firstblood/common/events"
	"github.com/burakmert236/firstblood/common/logger"
	"github.com/burakmert236/firstblood/common/models"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type ProtoPublisher interface {
	PublishProto(ctx context.Context, subject, msgID string, msg proto.Message) *apperrors.AppError
}

type EventPublisher struct {
	publisher ProtoPublisher
	logger    *logger.Logger
}

func NewEventPublisher(publisher ProtoPublisher, log *logger.Logger) *EventPublisher {
	return &EventPublisher{
		publisher: publisher,
		logger:    log.With("component", "EventPublisher"),
	}
}

func (p *EventPublisher) Name() string {
	return "nats"
}

// Save publishes one awarded event per record followed by the report summary.
func (p *EventPublisher) Save(ctx context.Context, report *models.Report) error {
	for position, award := range report.Awards {
		msg, err := awardedEvent(report, position, award)
		if err != nil {
			return err
		}

		if appErr := p.publisher.PublishProto(ctx, events.FirstBloodAwarded, awardMsgID(report.RunID, position), msg); appErr != nil {
			p.logger.Error("Failed to publish award event",
				"error", appErr,
				"run_id", report.RunID,
				"challenge_name", award.ChallengeName,
			)
			return appErr
		}
	}

	msg, err := reportGeneratedEvent(report)
	if err != nil {
		return err
	}
	if appErr := p.publisher.PublishProto(ctx, events.FirstBloodReportGenerated, report.RunID+":report", msg); appErr != nil {
		p.logger.Error("Failed to publish report event",
			"error", appErr,
			"run_id", report.RunID,
		)
		return appErr
	}

	return nil
}

// awardMsgID is stable per run and position, so a retried run does not
// duplicate events.
func awardMsgID(runID string, position int) string {
	return fmt.Sprintf("%s:award:%06d", runID, position)
}

func awardedEvent(report *models.Report, position int, award models.AwardRecord) (*structpb.Struct, error) {
	members := make([]interface{}, len(award.TeamMembers))
	for i, name := range award.TeamMembers {
		members[i] = name
	}

	msg, err := structpb.NewStruct(map[string]interface{}{
		"run_id":         report.RunID,
		"position":       position,
		"challenge_name": award.ChallengeName,
		"team_name":      award.TeamName,
		"team_members":   members,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build award event: %w", err)
	}
	return msg, nil
}

func reportGeneratedEvent(report *models.Report) (*structpb.Struct, error) {
	msg, err := structpb.NewStruct(map[string]interface{}{
		"run_id":       report.RunID,
		"source":       report.Source,
		"generated_at": report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		"awards":       len(report.Awards),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build report event: %w", err)
	}
	return msg, nil
}

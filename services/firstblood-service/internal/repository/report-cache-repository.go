package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/burakmert236/firstblood/common/cache"
	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/burakmert236/firstblood/common/logger"
	"github.com/burakmert236/firstblood/common/models"
	"github.com/redis/go-redis/v9"
)

const DefaultReportTTL = 7 * 24 * time.Hour

// ErrReportNotFound is returned when no report is cached under a key.
var ErrReportNotFound = apperrors.New(apperrors.CodeNotFound, "report not found")

// CachedWinner is one entry of the latest-awards hash.
type CachedWinner struct {
	ChallengeName string `json:"challenge_name"`
	TeamName      string `json:"team_name"`
}

type ReportCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewReportCacheRepository(redisClient *cache.RedisClient, ttl time.Duration, log *logger.Logger) *ReportCacheRepository {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &ReportCacheRepository{
		client: redisClient.GetClient(),
		ttl:    ttl,
		logger: log.With("component", "ReportCacheRepository"),
	}
}

// Key Generation (Private Helpers)

func reportKey(runID string) string {
	return fmt.Sprintf("firstblood:report:%s", runID)
}

func latestReportKey() string {
	return "firstblood:report:latest"
}

func latestAwardsHashKey() string {
	return "firstblood:awards:latest"
}

// winnerField keys the hash by report position; challenge names are not
// unique.
func winnerField(position int) string {
	return fmt.Sprintf("%06d", position)
}

func (r *ReportCacheRepository) Name() string {
	return "redis"
}

// Write Operations

// Save stores the report under its run id and as the latest report, and
// replaces the position -> winner hash of the latest run.
func (r *ReportCacheRepository) Save(ctx context.Context, report *models.Report) error {
	data, err := EncodeAwards(report.Awards, 0)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()

	pipe.Set(ctx, reportKey(report.RunID), data, r.ttl)
	pipe.Set(ctx, latestReportKey(), data, r.ttl)

	awardsKey := latestAwardsHashKey()
	pipe.Del(ctx, awardsKey)
	if len(report.Awards) > 0 {
		fields := make(map[string]interface{}, len(report.Awards))
		for position, award := range report.Awards {
			winner, err := json.Marshal(CachedWinner{
				ChallengeName: award.ChallengeName,
				TeamName:      award.TeamName,
			})
			if err != nil {
				return fmt.Errorf("failed to encode winner %d: %w", position, err)
			}
			fields[winnerField(position)] = winner
		}
		pipe.HSet(ctx, awardsKey, fields)
		pipe.Expire(ctx, awardsKey, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to cache report",
			"error", err,
			"run_id", report.RunID,
		)
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}

// Read Operations

func (r *ReportCacheRepository) GetReport(ctx context.Context, runID string) ([]models.AwardRecord, error) {
	return r.getAwards(ctx, reportKey(runID))
}

func (r *ReportCacheRepository) GetLatestReport(ctx context.Context) ([]models.AwardRecord, error) {
	return r.getAwards(ctx, latestReportKey())
}

// GetLatestWinners returns the latest run's winners in report order.
func (r *ReportCacheRepository) GetLatestWinners(ctx context.Context) ([]CachedWinner, error) {
	entries, err := r.client.HGetAll(ctx, latestAwardsHashKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get latest winners: %w", err)
	}

	positions := make([]string, 0, len(entries))
	for field := range entries {
		positions = append(positions, field)
	}
	sort.Strings(positions)

	winners := make([]CachedWinner, 0, len(entries))
	for _, field := range positions {
		var winner CachedWinner
		if err := json.Unmarshal([]byte(entries[field]), &winner); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeObjectUnmarshalError,
				fmt.Sprintf("failed to decode cached winner %s", field))
		}
		winners = append(winners, winner)
	}
	return winners, nil
}

func (r *ReportCacheRepository) getAwards(ctx context.Context, key string) ([]models.AwardRecord, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var awards []models.AwardRecord
	if err := json.Unmarshal(data, &awards); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeObjectUnmarshalError, "failed to decode cached report")
	}
	return awards, nil
}

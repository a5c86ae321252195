package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/burakmert236/firstblood/common/database"
	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/burakmert236/firstblood/common/logger"
	"github.com/burakmert236/firstblood/common/models"
)

type AwardRepository struct {
	transactionRepo database.TransactionRepository
	tableName       string
	logger          *logger.Logger
}

func NewAwardRepository(
	transactionRepo database.TransactionRepository,
	tableName string,
	log *logger.Logger,
) *AwardRepository {
	return &AwardRepository{
		transactionRepo: transactionRepo,
		tableName:       tableName,
		logger:          log.With("component", "AwardRepository"),
	}
}

func (r *AwardRepository) Name() string {
	return "dynamodb"
}

// Save writes one item per award. Awards are split into transactions of at
// most database.MaxTransactionItems items.
func (r *AwardRepository) Save(ctx context.Context, report *models.Report) error {
	tb := database.NewTransactionBuilder()
	batches := 0

	for position := range report.Awards {
		item, err := attributevalue.MarshalMap(models.NewAwardItem(report, position))
		if err != nil {
			return fmt.Errorf("failed to marshal award %d: %w", position, err)
		}

		if err := tb.AddPut(types.Put{
			TableName: aws.String(r.tableName),
			Item:      item,
		}); err != nil {
			return fmt.Errorf("failed to add award to transaction: %w", err)
		}

		if tb.Full() {
			if err := r.flush(ctx, tb, report.RunID); err != nil {
				return err
			}
			batches++
			tb = database.NewTransactionBuilder()
		}
	}

	if tb.Count() > 0 {
		if err := r.flush(ctx, tb, report.RunID); err != nil {
			return err
		}
		batches++
	}

	r.logger.Debug("Awards stored",
		"run_id", report.RunID,
		"items", len(report.Awards),
		"transactions", batches,
	)
	return nil
}

func (r *AwardRepository) flush(ctx context.Context, tb *database.TransactionBuilder, runID string) error {
	if err := r.transactionRepo.Execute(ctx, tb); err != nil {
		r.logger.Error("Failed to store awards",
			"error", err,
			"run_id", runID,
			"items", tb.Count(),
		)
		return apperrors.Wrap(err, apperrors.CodeTransactionError,
			fmt.Sprintf("failed to store %d awards of run %s", tb.Count(), runID))
	}
	return nil
}

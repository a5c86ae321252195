package database

import (
	"context"
)

type TransactionRepository interface {
	Execute(ctx context.Context, transactionBuilder *TransactionBuilder) error
}

type transactionRepo struct {
	client TransactWriter
}

func NewTransactionRepository(client TransactWriter) TransactionRepository {
	return &transactionRepo{client: client}
}

func (r *transactionRepo) Execute(ctx context.Context, transactionBuilder *TransactionBuilder) error {
	return transactionBuilder.Execute(ctx, r.client)
}

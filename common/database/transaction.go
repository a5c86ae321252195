package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MaxTransactionItems is DynamoDB's per-transaction item limit.
const MaxTransactionItems = 100

// TransactWriter is the part of *dynamodb.Client a transaction needs.
type TransactWriter interface {
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

type TransactionBuilder struct {
	items []types.TransactWriteItem
	limit int
}

func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		items: make([]types.TransactWriteItem, 0),
		limit: MaxTransactionItems,
	}
}

func (tb *TransactionBuilder) AddPut(item types.Put) error {
	if tb.Full() {
		return fmt.Errorf("transaction limit exceeded: %d items", tb.limit)
	}
	tb.items = append(tb.items, types.TransactWriteItem{
		Put: &item,
	})
	return nil
}

func (tb *TransactionBuilder) Execute(ctx context.Context, client TransactWriter) error {
	if len(tb.items) == 0 {
		return fmt.Errorf("no items in transaction")
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: tb.items,
	}

	_, err := client.TransactWriteItems(ctx, input)
	return err
}

func (tb *TransactionBuilder) Count() int {
	return len(tb.items)
}

func (tb *TransactionBuilder) Full() bool {
	return len(tb.items) >= tb.limit
}

package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoAPI is the minimal DynamoDB surface required by DynamoStore.
// Defined here for testability.
type dynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore persists one history item per sender in a DynamoDB table.
// Like RedisStore, the read-modify-write is not atomic across concurrent
// requests for the same sender.
type DynamoStore struct {
	api       dynamoAPI
	tableName string
}

// historyItem is the stored table row.
type historyItem struct {
	Sender  string  `dynamodbav:"sender"`
	Entries []Entry `dynamodbav:"entries"`
}

// NewDynamoStore creates a store writing to the given table.
func NewDynamoStore(api dynamoAPI, tableName string) (*DynamoStore, error) {
	if api == nil {
		return nil, errors.New("conversation: dynamodb api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("conversation: table name must not be empty")
	}
	return &DynamoStore{api: api, tableName: tableName}, nil
}

// Append implements Store.
func (s *DynamoStore) Append(ctx context.Context, sender string, role Role, text string) error {
	history, err := s.Recent(ctx, sender)
	if err != nil {
		return err
	}
	history = trimHistory(append(history, Entry{Role: role, Text: text}))

	item, err := attributevalue.MarshalMap(historyItem{Sender: sender, Entries: history})
	if err != nil {
		return fmt.Errorf("conversation: marshal history item: %w", err)
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("conversation: put history item: %w", err)
	}
	return nil
}

// Recent implements Store.
func (s *DynamoStore) Recent(ctx context.Context, sender string) ([]Entry, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"sender": &types.AttributeValueMemberS{Value: sender},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("conversation: get history item: %w", err)
	}
	if len(out.Item) == 0 {
		return []Entry{}, nil
	}
	var item historyItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("conversation: unmarshal history item: %w", err)
	}
	return item.Entries, nil
}

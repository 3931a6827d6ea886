package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	items   map[string]map[string]types.AttributeValue
	getErr  error
	putErr  error
	lastPut *dynamodb.PutItemInput
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sender := in.Key["sender"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[sender]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	sender := in.Item["sender"].(*types.AttributeValueMemberS).Value
	f.items[sender] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestNewDynamoStoreValidation(t *testing.T) {
	_, err := NewDynamoStore(nil, "table")
	require.Error(t, err)

	_, err = NewDynamoStore(newFakeDynamo(), "  ")
	require.Error(t, err)
}

func TestDynamoStoreAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	api := newFakeDynamo()
	store, err := NewDynamoStore(api, "conversation_history")
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, "5511999990000", RoleUser, "oi"))
	require.NoError(t, store.Append(ctx, "5511999990000", RoleAssistant, "olá!"))

	require.NotNil(t, api.lastPut)
	require.Equal(t, "conversation_history", *api.lastPut.TableName)

	history, err := store.Recent(ctx, "5511999990000")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, Entry{Role: RoleUser, Text: "oi"}, history[0])
	require.Equal(t, Entry{Role: RoleAssistant, Text: "olá!"}, history[1])
}

func TestDynamoStoreUnknownSenderIsEmpty(t *testing.T) {
	store, err := NewDynamoStore(newFakeDynamo(), "t")
	require.NoError(t, err)

	history, err := store.Recent(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestDynamoStoreBatchTrim(t *testing.T) {
	ctx := context.Background()
	store, err := NewDynamoStore(newFakeDynamo(), "t")
	require.NoError(t, err)

	for i := 1; i <= 11; i++ {
		require.NoError(t, store.Append(ctx, "sender", RoleUser, "msg"))
	}

	history, err := store.Recent(ctx, "sender")
	require.NoError(t, err)
	require.Len(t, history, 5)
}

func TestDynamoStorePropagatesErrors(t *testing.T) {
	api := newFakeDynamo()
	store, err := NewDynamoStore(api, "t")
	require.NoError(t, err)

	api.getErr = errors.New("boom")
	_, err = store.Recent(context.Background(), "sender")
	require.Error(t, err)

	api.getErr = nil
	api.putErr = errors.New("boom")
	require.Error(t, store.Append(context.Background(), "sender", RoleUser, "oi"))
}

func TestHistoryItemRoundTrip(t *testing.T) {
	item, err := attributevalue.MarshalMap(historyItem{
		Sender:  "s",
		Entries: []Entry{{Role: RoleUser, Text: "oi"}},
	})
	require.NoError(t, err)

	var out historyItem
	require.NoError(t, attributevalue.UnmarshalMap(item, &out))
	require.Equal(t, "s", out.Sender)
	require.Len(t, out.Entries, 1)
}

// docstore/dynamo_test.go
package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBook struct {
	ID     string `dynamodbav:"id"`
	Title  string `dynamodbav:"title"`
	Author string `dynamodbav:"author"`
	Year   int    `dynamodbav:"year"`
}

func testTableConfig() TableConfig {
	return TableConfig{TableName: "test-table", CollectionKey: "collection", IDKey: "docId"}
}

func TestDynamoGet_Success(t *testing.T) {
	t.Parallel()

	var captured *dynamodb.GetItemInput
	client := &MockDynamoClient{
		GetItemFn: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			captured = params
			return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
				"id":     &types.AttributeValueMemberS{Value: "b1"},
				"title":  &types.AttributeValueMemberS{Value: "Sirens of Titan"},
				"author": &types.AttributeValueMemberS{Value: "Kurt Vonnegut"},
				"year":   &types.AttributeValueMemberN{Value: "1959"},
			}}, nil
		},
	}
	store := New(client, testTableConfig())

	raw, err := store.Collection("Book").Doc("b1").Get(context.Background())
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, aws.String("test-table"), captured.TableName)
	assert.Equal(t, aws.Bool(true), captured.ConsistentRead)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Book"}, captured.Key["collection"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "b1"}, captured.Key["docId"])

	var book testBook
	require.NoError(t, raw.Decode(&book))
	assert.Equal(t, "Sirens of Titan", book.Title)
	assert.Equal(t, 1959, book.Year)
}

func TestDynamoGet_NotFound(t *testing.T) {
	t.Parallel()

	client := &MockDynamoClient{
		GetItemFn: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}
	store := New(client, testTableConfig())

	_, err := store.Collection("Book").Doc("missing").Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoSet_WritesTableKeys(t *testing.T) {
	t.Parallel()

	var captured *dynamodb.PutItemInput
	client := &MockDynamoClient{
		PutItemFn: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			captured = params
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	store := New(client, testTableConfig())

	err := store.Collection("Book").Doc("b1").Set(context.Background(), map[string]any{
		"title": "Cat's Cradle",
		"year":  1963,
		// tentativa de sobrescrever a chave da tabela deve ser ignorada
		"collection": "Other",
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, aws.String("test-table"), captured.TableName)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Book"}, captured.Item["collection"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "b1"}, captured.Item["docId"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Cat's Cradle"}, captured.Item["title"])
}

func TestDynamoDelete_WrapsError(t *testing.T) {
	t.Parallel()

	boom := errors.New("permission denied")
	client := &MockDynamoClient{
		DeleteItemFn: func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
			return nil, boom
		},
	}
	store := New(client, testTableConfig())

	err := store.Collection("Book").Doc("b1").Delete(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDynamoQuery_TranslatesFilters(t *testing.T) {
	t.Parallel()

	var captured *dynamodb.QueryInput
	client := &MockDynamoClient{
		QueryFn: func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			captured = params
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{{
				"id": &types.AttributeValueMemberS{Value: "b1"},
			}}}, nil
		},
	}
	store := New(client, testTableConfig())

	it := store.Collection("Book").
		Where("author", OpEqual, "Kurt Vonnegut").
		Where("year", OpGreater, 1950).
		Limit(5).
		Documents()

	_, err := it.Next(context.Background())
	require.NoError(t, err)

	require.NotNil(t, captured)
	require.NotNil(t, captured.KeyConditionExpression)
	require.NotNil(t, captured.FilterExpression)
	assert.Equal(t, aws.Int32(5), captured.Limit)

	values := make([]types.AttributeValue, 0, len(captured.ExpressionAttributeValues))
	for _, v := range captured.ExpressionAttributeValues {
		values = append(values, v)
	}
	assert.Contains(t, values, &types.AttributeValueMemberS{Value: "Kurt Vonnegut"})

	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, ErrIteratorDone)
}

func TestDynamoQuery_Pagination(t *testing.T) {
	t.Parallel()

	page := 0
	var startKeys []map[string]types.AttributeValue
	client := &MockDynamoClient{
		QueryFn: func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			startKeys = append(startKeys, params.ExclusiveStartKey)
			page++
			if page == 1 {
				return &dynamodb.QueryOutput{
					Items: []map[string]types.AttributeValue{
						{"id": &types.AttributeValueMemberS{Value: "a"}},
						{"id": &types.AttributeValueMemberS{Value: "b"}},
					},
					LastEvaluatedKey: map[string]types.AttributeValue{
						"docId": &types.AttributeValueMemberS{Value: "b"},
					},
				}, nil
			}
			return &dynamodb.QueryOutput{
				Items: []map[string]types.AttributeValue{
					{"id": &types.AttributeValueMemberS{Value: "c"}},
				},
			}, nil
		},
	}
	store := New(client, testTableConfig())

	it := store.Collection("Book").Documents()

	var ids []string
	for {
		raw, err := it.Next(context.Background())
		if err == ErrIteratorDone {
			break
		}
		require.NoError(t, err)
		data, err := raw.Data()
		require.NoError(t, err)
		ids = append(ids, data["id"].(string))
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, 2, page)
	require.Len(t, startKeys, 2)
	assert.Nil(t, startKeys[0])
	assert.NotNil(t, startKeys[1])
}

func TestDynamoQuery_LimitStopsDelivery(t *testing.T) {
	t.Parallel()

	client := &MockDynamoClient{
		QueryFn: func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{
				Items: []map[string]types.AttributeValue{
					{"id": &types.AttributeValueMemberS{Value: "a"}},
					{"id": &types.AttributeValueMemberS{Value: "b"}},
				},
				LastEvaluatedKey: map[string]types.AttributeValue{
					"docId": &types.AttributeValueMemberS{Value: "b"},
				},
			}, nil
		},
	}
	store := New(client, testTableConfig())

	it := store.Collection("Book").Limit(2).Documents()

	_, err := it.Next(context.Background())
	require.NoError(t, err)
	_, err = it.Next(context.Background())
	require.NoError(t, err)

	// limite atingido: não há nova página mesmo com LastEvaluatedKey
	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, ErrIteratorDone)
}

func TestDynamoQuery_UnsupportedOperator(t *testing.T) {
	t.Parallel()

	store := New(&MockDynamoClient{}, testTableConfig())

	it := store.Collection("Book").Where("year", "~=", 1950).Documents()
	_, err := it.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported operator")
}

func TestNew_LoadsConfigFromEnv(t *testing.T) {
	t.Setenv("DOCSTORE_TABLE_NAME", "env-table")

	var captured *dynamodb.GetItemInput
	client := &MockDynamoClient{
		GetItemFn: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			captured = params
			return &dynamodb.GetItemOutput{}, nil
		},
	}
	store := New(client, TableConfig{})

	_, _ = store.Collection("Book").Doc("b1").Get(context.Background())
	require.NotNil(t, captured)
	assert.Equal(t, aws.String("env-table"), captured.TableName)
	assert.Contains(t, captured.Key, "collection")
	assert.Contains(t, captured.Key, "docId")
}

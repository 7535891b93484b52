// docstore/dynamo_query.go
package docstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoIterator executa a consulta de forma preguiçosa: a primeira chamada
// a Next monta a expressão e dispara o Query; páginas seguintes são buscadas
// via ExclusiveStartKey conforme o consumidor avança.
type dynamoIterator struct {
	col *dynamoCollection

	started   bool
	done      bool
	input     *dynamodb.QueryInput
	buffer    []map[string]types.AttributeValue
	lastKey   map[string]types.AttributeValue
	delivered int32
}

func (it *dynamoIterator) Next(ctx context.Context) (RawRecord, error) {
	if it.done {
		return nil, ErrIteratorDone
	}
	if !it.started {
		if err := it.start(); err != nil {
			it.done = true
			return nil, err
		}
		if err := it.fetchPage(ctx); err != nil {
			it.done = true
			return nil, err
		}
	}

	for len(it.buffer) == 0 {
		if it.lastKey == nil {
			it.done = true
			return nil, ErrIteratorDone
		}
		if err := it.fetchPage(ctx); err != nil {
			it.done = true
			return nil, err
		}
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]
	it.delivered++
	if it.col.limit != nil && it.delivered >= *it.col.limit {
		it.done = true
	}
	return dynamoRecord(item), nil
}

// start traduz os filtros acumulados na expressão nativa do DynamoDB.
func (it *dynamoIterator) start() error {
	cfg := it.col.store.cfg

	builder := expression.NewBuilder().
		WithKeyCondition(expression.KeyEqual(expression.Key(cfg.CollectionKey), expression.Value(it.col.name)))

	var filter *expression.ConditionBuilder
	for _, clause := range it.col.filters {
		cond, err := translateClause(clause)
		if err != nil {
			return err
		}
		if filter == nil {
			filter = &cond
		} else {
			combined := filter.And(cond)
			filter = &combined
		}
	}
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}

	expr, err := builder.Build()
	if err != nil {
		return fmt.Errorf("docstore: build query failed: %w", err)
	}

	it.input = &dynamodb.QueryInput{
		TableName:                 aws.String(cfg.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     it.col.limit,
	}
	it.started = true
	return nil
}

func (it *dynamoIterator) fetchPage(ctx context.Context) error {
	out, err := it.col.store.client.Query(ctx, it.input)
	if err != nil {
		return fmt.Errorf("docstore: query failed: %w", err)
	}
	it.buffer = out.Items
	it.lastKey = out.LastEvaluatedKey
	it.input.ExclusiveStartKey = it.lastKey
	return nil
}

func translateClause(clause filterClause) (expression.ConditionBuilder, error) {
	name := expression.Name(clause.field)
	value := expression.Value(clause.value)

	switch clause.op {
	case OpEqual, "":
		return expression.Equal(name, value), nil
	case OpNotEqual:
		return expression.NotEqual(name, value), nil
	case OpLessThan:
		return expression.LessThan(name, value), nil
	case OpLessOrEqual:
		return expression.LessThanEqual(name, value), nil
	case OpGreater:
		return expression.GreaterThan(name, value), nil
	case OpGreaterOrEqual:
		return expression.GreaterThanEqual(name, value), nil
	case OpArrayContains:
		return expression.Contains(name, clause.value), nil
	default:
		return expression.ConditionBuilder{}, fmt.Errorf("docstore: unsupported operator %q", clause.op)
	}
}

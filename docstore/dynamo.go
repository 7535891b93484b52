// docstore/dynamo.go
package docstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/raywall/docmodel-toolkit/envloader"
)

// DynamoDBClient abstrai o cliente DynamoDB do SDK da AWS.
//
// A interface é usada internamente por `dynamoStore` e permite a substituição
// (mocking) do cliente real do DynamoDB nos testes.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// TableConfig contém a configuração da tabela única que armazena todas as
// coleções. A chave de partição guarda o nome da coleção e a chave de
// ordenação guarda o id do documento.
//
// As tags `env` permitem carregar a configuração de variáveis de ambiente.
type TableConfig struct {
	TableName     string `env:"DOCSTORE_TABLE_NAME"`
	CollectionKey string `env:"DOCSTORE_COLLECTION_KEY" envDefault:"collection"`
	IDKey         string `env:"DOCSTORE_ID_KEY" envDefault:"docId"`
}

type dynamoStore struct {
	client DynamoDBClient
	cfg    TableConfig
}

// New cria um Store apoiado em uma tabela DynamoDB.
//
// Se cfg.TableName estiver vazio, a configuração é carregada das variáveis
// de ambiente (tags `env` de TableConfig).
func New(client DynamoDBClient, cfg TableConfig) Store {
	if cfg.TableName == "" {
		_ = envloader.Load(&cfg)
	}
	if cfg.CollectionKey == "" {
		cfg.CollectionKey = "collection"
	}
	if cfg.IDKey == "" {
		cfg.IDKey = "docId"
	}

	return &dynamoStore{
		client: client,
		cfg:    cfg,
	}
}

func (s *dynamoStore) Collection(name string) CollectionRef {
	return &dynamoCollection{store: s, name: name}
}

// dynamoCollection é o handle imutável de uma coleção. Where e Limit
// retornam cópias, então um handle base pode ser reaproveitado.
type dynamoCollection struct {
	store   *dynamoStore
	name    string
	filters []filterClause
	limit   *int32
}

type filterClause struct {
	field string
	op    string
	value any
}

func (c *dynamoCollection) Doc(id string) DocRef {
	return &dynamoDoc{store: c.store, collection: c.name, id: id}
}

func (c *dynamoCollection) Where(field, op string, value any) CollectionRef {
	next := *c
	next.filters = append(append([]filterClause(nil), c.filters...), filterClause{field: field, op: op, value: value})
	return &next
}

func (c *dynamoCollection) Limit(n int32) CollectionRef {
	next := *c
	next.limit = &n
	return &next
}

func (c *dynamoCollection) Documents() DocumentIterator {
	return &dynamoIterator{col: c}
}

type dynamoDoc struct {
	store      *dynamoStore
	collection string
	id         string
}

func (d *dynamoDoc) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		d.store.cfg.CollectionKey: &types.AttributeValueMemberS{Value: d.collection},
		d.store.cfg.IDKey:         &types.AttributeValueMemberS{Value: d.id},
	}
}

func (d *dynamoDoc) Get(ctx context.Context) (RawRecord, error) {
	out, err := d.store.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.store.cfg.TableName),
		Key:            d.key(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("docstore: get failed: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	return dynamoRecord(out.Item), nil
}

func (d *dynamoDoc) Set(ctx context.Context, fields map[string]any) error {
	av, err := attributevalue.MarshalMap(fields)
	if err != nil {
		return fmt.Errorf("docstore: marshal failed: %w", err)
	}
	// As chaves da tabela sempre vêm da referência, nunca do payload.
	av[d.store.cfg.CollectionKey] = &types.AttributeValueMemberS{Value: d.collection}
	av[d.store.cfg.IDKey] = &types.AttributeValueMemberS{Value: d.id}

	_, err = d.store.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.store.cfg.TableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("docstore: set failed: %w", err)
	}
	return nil
}

func (d *dynamoDoc) Delete(ctx context.Context) error {
	_, err := d.store.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.store.cfg.TableName),
		Key:       d.key(),
	})
	if err != nil {
		return fmt.Errorf("docstore: delete failed: %w", err)
	}
	return nil
}

// dynamoRecord é o snapshot bruto vindo do DynamoDB.
type dynamoRecord map[string]types.AttributeValue

func (r dynamoRecord) Data() (map[string]any, error) {
	var fields map[string]any
	if err := attributevalue.UnmarshalMap(r, &fields); err != nil {
		return nil, fmt.Errorf("docstore: unmarshal failed: %w", err)
	}
	return fields, nil
}

func (r dynamoRecord) Decode(target any) error {
	if err := attributevalue.UnmarshalMap(r, target); err != nil {
		return fmt.Errorf("docstore: unmarshal failed: %w", err)
	}
	return nil
}

// docstore/mock.go
package docstore

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// MockStore é um mock fácil de usar para testes da interface Store.
//
// Ele expõe campos de função (`CollectionFn`) que podem ser definidos para
// simular o comportamento desejado. Sem `CollectionFn`, cada coleção nomeada
// recebe um `MockCollection` próprio, reutilizado entre chamadas, de forma
// que as invocações de Where/Limit fiquem registradas para inspeção.
type MockStore struct {
	CollectionFn func(name string) CollectionRef

	collections map[string]*MockCollection
}

func (m *MockStore) Collection(name string) CollectionRef {
	if m.CollectionFn != nil {
		return m.CollectionFn(name)
	}
	if m.collections == nil {
		m.collections = make(map[string]*MockCollection)
	}
	col, ok := m.collections[name]
	if !ok {
		col = &MockCollection{Name: name}
		m.collections[name] = col
	}
	return col
}

// MockCollectionRef retorna o MockCollection associado à coleção nomeada,
// criando-o se necessário. Útil para inspecionar chamadas após o teste.
func (m *MockStore) MockCollectionRef(name string) *MockCollection {
	return m.Collection(name).(*MockCollection)
}

// WhereCall registra uma chamada a CollectionRef.Where.
type WhereCall struct {
	Field string
	Op    string
	Value any
}

// MockCollection implementa CollectionRef registrando todas as chamadas de
// filtragem, na ordem em que aconteceram.
type MockCollection struct {
	Name string

	DocFn       func(id string) DocRef
	DocumentsFn func() DocumentIterator

	WhereCalls []WhereCall
	LimitCalls []int32

	docs map[string]*MockDoc
}

func (m *MockCollection) Doc(id string) DocRef {
	if m.DocFn != nil {
		return m.DocFn(id)
	}
	if m.docs == nil {
		m.docs = make(map[string]*MockDoc)
	}
	doc, ok := m.docs[id]
	if !ok {
		doc = &MockDoc{ID: id}
		m.docs[id] = doc
	}
	return doc
}

func (m *MockCollection) Where(field, op string, value any) CollectionRef {
	m.WhereCalls = append(m.WhereCalls, WhereCall{Field: field, Op: op, Value: value})
	return m
}

func (m *MockCollection) Limit(n int32) CollectionRef {
	m.LimitCalls = append(m.LimitCalls, n)
	return m
}

func (m *MockCollection) Documents() DocumentIterator {
	if m.DocumentsFn != nil {
		return m.DocumentsFn()
	}
	return &MockIterator{}
}

// MockDoc implementa DocRef. Sem funções definidas, Get retorna ErrNotFound
// e Set/Delete retornam sucesso registrando a chamada.
type MockDoc struct {
	ID string

	GetFn    func(ctx context.Context) (RawRecord, error)
	SetFn    func(ctx context.Context, fields map[string]any) error
	DeleteFn func(ctx context.Context) error

	SetCalls    []map[string]any
	DeleteCalls int
}

func (m *MockDoc) Get(ctx context.Context) (RawRecord, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	return nil, ErrNotFound
}

func (m *MockDoc) Set(ctx context.Context, fields map[string]any) error {
	m.SetCalls = append(m.SetCalls, fields)
	if m.SetFn != nil {
		return m.SetFn(ctx, fields)
	}
	return nil
}

func (m *MockDoc) Delete(ctx context.Context) error {
	m.DeleteCalls++
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx)
	}
	return nil
}

// MockIterator entrega os registros de Records em sequência e depois
// ErrIteratorDone (ou Err, se definido, uma única vez antes de encerrar).
type MockIterator struct {
	Records []RawRecord
	Err     error

	pos int
}

func (m *MockIterator) Next(ctx context.Context) (RawRecord, error) {
	if m.pos < len(m.Records) {
		rec := m.Records[m.pos]
		m.pos++
		return rec, nil
	}
	if m.Err != nil {
		err := m.Err
		m.Err = nil
		return nil, err
	}
	return nil, ErrIteratorDone
}

// MockDynamoClient é um mock para a interface DynamoDBClient de baixo nível.
//
// Permite testar a lógica interna do backend DynamoDB sem tocar no AWS SDK.
type MockDynamoClient struct {
	GetItemFn    func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItemFn    func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItemFn func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	QueryFn      func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

func (m *MockDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *MockDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.PutItemFn != nil {
		return m.PutItemFn(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *MockDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, params, optFns...)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *MockDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if m.QueryFn != nil {
		return m.QueryFn(ctx, params, optFns...)
	}
	return &dynamodb.QueryOutput{}, nil
}

// MockRecord é um RawRecord baseado em mapa, decodificado pelo codec
// compartilhado do pacote.
type MockRecord map[string]any

func (r MockRecord) Data() (map[string]any, error) {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out, nil
}

func (r MockRecord) Decode(target any) error {
	return DecodeFields(r, target)
}

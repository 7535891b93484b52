// docstore/types.go
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound – erro padrão retornado quando um documento não existe
// no caminho resolvido (coleção + id).
var ErrNotFound = errors.New("docstore: document not found")

// ErrIteratorDone – sentinela retornada por DocumentIterator.Next quando
// o stream de resultados foi totalmente consumido.
var ErrIteratorDone = errors.New("docstore: iterator done")

// Operadores de comparação aceitos por CollectionRef.Where.
//
// O conjunto segue o que o backend consegue traduzir nativamente; qualquer
// outro valor resulta em erro na execução da consulta.
const (
	OpEqual          = "=="
	OpNotEqual       = "!="
	OpLessThan       = "<"
	OpLessOrEqual    = "<="
	OpGreater        = ">"
	OpGreaterOrEqual = ">="
	OpArrayContains  = "array-contains"
)

// Store é a capacidade mínima de um banco de documentos usada pela camada
// de modelos (docmodel). Implementações existentes: DynamoDB (New),
// memória (NewMemory) e mocks (MockStore).
type Store interface {
	// Collection retorna um handle para a coleção nomeada.
	Collection(name string) CollectionRef
}

// CollectionRef é o handle de uma coleção (agrupamento nomeado de
// documentos). Os métodos Where e Limit retornam um novo handle filtrado,
// permitindo encadeamento sem mutação do handle original.
type CollectionRef interface {
	// Doc retorna a referência do documento com o id informado.
	Doc(id string) DocRef

	// Where adiciona uma condição conjuntiva (AND) à consulta.
	Where(field, op string, value any) CollectionRef

	// Limit limita a quantidade de documentos retornados pelo stream.
	Limit(n int32) CollectionRef

	// Documents inicia a execução preguiçosa da consulta. O primeiro
	// Next no iterador dispara a chamada ao backend.
	Documents() DocumentIterator
}

// DocRef referencia um único documento endereçado por coleção + id.
type DocRef interface {
	// Get busca o snapshot bruto do documento. Retorna ErrNotFound
	// quando o documento não existe.
	Get(ctx context.Context) (RawRecord, error)

	// Set grava o documento por substituição completa (não é merge).
	Set(ctx context.Context, fields map[string]any) error

	// Delete remove o documento.
	Delete(ctx context.Context) error
}

// RawRecord é o snapshot bruto de um documento, antes da hidratação em um
// tipo concreto.
type RawRecord interface {
	// Data retorna os campos como um mapa plano de valores Go.
	Data() (map[string]any, error)

	// Decode desserializa os campos no destino (ponteiro para struct ou
	// mapa), usando o codec nativo do backend.
	Decode(target any) error
}

// DocumentIterator entrega os resultados de uma consulta um a um.
//
// O iterador é finito, de passada única e não reiniciável: depois de
// consumido, Next retorna ErrIteratorDone para sempre.
type DocumentIterator interface {
	Next(ctx context.Context) (RawRecord, error)
}

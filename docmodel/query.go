package docmodel

import (
	"context"

	"github.com/raywall/docmodel-toolkit/docstore"
)

// ErrDone sinaliza o fim de um Iterator. É a mesma sentinela do docstore.
var ErrDone = docstore.ErrIteratorDone

// Filter descreve uma condição de consulta. Op vazio equivale a igualdade.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Eq é o filtro de igualdade (a dupla campo/valor).
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: docstore.OpEqual, Value: value}
}

// Cond é o filtro com operador explícito (a tripla campo/operador/valor).
// Os operadores aceitos são os do docstore (docstore.OpLessThan etc.).
func Cond(field, op string, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Query descreve uma consulta sobre a coleção de T: a lista ordenada de
// filtros já aplicada, como condições conjuntivas (AND), sobre o handle
// nativo do banco.
//
// Ref é o handle subjacente, exposto como válvula de escape: refinamentos
// que a lista de filtros não expressa podem ser aplicados reatribuindo-o
// antes de Get.
//
// A Query tem exatamente dois estados: construída e executada. Uma vez
// executada (Get), não volta atrás; Get devolve sempre o mesmo iterador,
// de passada única.
type Query[T any, PT recordOf[T]] struct {
	Ref docstore.CollectionRef

	col *Collection[T, PT]
	err error
	it  *Iterator[T, PT]
}

// Query constrói uma Query com os filtros dados, sem executá-la.
//
// Exemplo:
//
//	it := books.Query([]docmodel.Filter{
//		docmodel.Eq("author", "Kurt Vonnegut"),
//		docmodel.Cond("year", docstore.OpGreater, 1950),
//	}).Get()
func (c *Collection[T, PT]) Query(filters []Filter, opts ...CallOption) *Query[T, PT] {
	call := applyCallOptions(opts)
	q := &Query[T, PT]{col: c}

	st, err := c.resolveStore()
	if err != nil {
		q.err = err
		return q
	}

	ref := st.Collection(c.resolvePath(call.path))
	for _, f := range filters {
		op := f.Op
		if op == "" {
			op = docstore.OpEqual
		}
		ref = ref.Where(f.Field, op, f.Value)
	}
	q.Ref = ref
	return q
}

// Limit limita a quantidade de registros retornados, reatribuindo o handle
// subjacente. Sem efeito depois de Get.
func (q *Query[T, PT]) Limit(n int32) *Query[T, PT] {
	if q.it == nil && q.Ref != nil {
		q.Ref = q.Ref.Limit(n)
	}
	return q
}

// Get executa a consulta e retorna o iterador de registros hidratados.
// A execução acontece uma única vez: chamadas subsequentes devolvem o mesmo
// iterador, possivelmente já consumido. Falhas de execução e de hidratação
// sempre propagam pelo Next.
func (q *Query[T, PT]) Get() *Iterator[T, PT] {
	if q.it != nil {
		return q.it
	}
	if q.err != nil {
		q.it = &Iterator[T, PT]{err: q.err}
		return q.it
	}
	q.it = &Iterator[T, PT]{col: q.col, docs: q.Ref.Documents()}
	return q.it
}

// Iterator entrega os resultados de uma Query um a um, já hidratados.
// É finito, de passada única e não reiniciável.
type Iterator[T any, PT recordOf[T]] struct {
	col  *Collection[T, PT]
	docs docstore.DocumentIterator
	err  error
}

// Next retorna o próximo registro, ErrDone no fim do stream, ou o erro de
// execução/hidratação.
func (it *Iterator[T, PT]) Next(ctx context.Context) (PT, error) {
	if it.err != nil {
		return nil, it.err
	}
	raw, err := it.docs.Next(ctx)
	if err != nil {
		return nil, err
	}
	return it.col.hydrate(raw)
}

// All consome o iterador até o fim e devolve os registros acumulados.
func (it *Iterator[T, PT]) All(ctx context.Context) ([]PT, error) {
	var out []PT
	for {
		rec, err := it.Next(ctx)
		if err == ErrDone {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

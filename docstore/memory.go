// docstore/memory.go
package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// memoryStore é um Store em memória, com a mesma semântica de substituição
// completa e filtragem do backend DynamoDB. Útil em testes e desenvolvimento
// local, sem credenciais AWS.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any // coleção -> id -> campos
}

// NewMemory cria um Store em memória, seguro para uso concorrente.
func NewMemory() Store {
	return &memoryStore{data: make(map[string]map[string]map[string]any)}
}

func (s *memoryStore) Collection(name string) CollectionRef {
	return &memoryCollection{store: s, name: name}
}

type memoryCollection struct {
	store   *memoryStore
	name    string
	filters []filterClause
	limit   *int32
}

func (c *memoryCollection) Doc(id string) DocRef {
	return &memoryDoc{store: c.store, collection: c.name, id: id}
}

func (c *memoryCollection) Where(field, op string, value any) CollectionRef {
	next := *c
	next.filters = append(append([]filterClause(nil), c.filters...), filterClause{field: field, op: op, value: value})
	return &next
}

func (c *memoryCollection) Limit(n int32) CollectionRef {
	next := *c
	next.limit = &n
	return &next
}

func (c *memoryCollection) Documents() DocumentIterator {
	return &memoryIterator{col: c}
}

type memoryDoc struct {
	store      *memoryStore
	collection string
	id         string
}

func (d *memoryDoc) Get(ctx context.Context) (RawRecord, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	fields, ok := d.store.data[d.collection][d.id]
	if !ok {
		return nil, ErrNotFound
	}
	return memoryRecord(cloneFields(fields)), nil
}

func (d *memoryDoc) Set(ctx context.Context, fields map[string]any) error {
	// Normaliza pelo codec compartilhado para que os tipos armazenados
	// sejam os mesmos que o backend real devolveria.
	normalized, err := MarshalFields(fields)
	if err != nil {
		return err
	}

	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	col, ok := d.store.data[d.collection]
	if !ok {
		col = make(map[string]map[string]any)
		d.store.data[d.collection] = col
	}
	col[d.id] = normalized
	return nil
}

func (d *memoryDoc) Delete(ctx context.Context) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	delete(d.store.data[d.collection], d.id)
	return nil
}

// memoryIterator materializa o resultado na primeira chamada a Next e o
// entrega item a item, preservando a semântica de passada única.
type memoryIterator struct {
	col     *memoryCollection
	started bool
	buffer  []memoryRecord
	err     error
}

func (it *memoryIterator) Next(ctx context.Context) (RawRecord, error) {
	if !it.started {
		it.started = true
		it.buffer, it.err = it.col.execute()
	}
	if it.err != nil {
		err := it.err
		it.err = nil
		it.buffer = nil
		return nil, err
	}
	if len(it.buffer) == 0 {
		return nil, ErrIteratorDone
	}
	rec := it.buffer[0]
	it.buffer = it.buffer[1:]
	return rec, nil
}

func (c *memoryCollection) execute() ([]memoryRecord, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	ids := make([]string, 0, len(c.store.data[c.name]))
	for id := range c.store.data[c.name] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []memoryRecord
	for _, id := range ids {
		fields := c.store.data[c.name][id]
		match, err := matchesAll(fields, c.filters)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}
		out = append(out, memoryRecord(cloneFields(fields)))
		if c.limit != nil && int32(len(out)) >= *c.limit {
			break
		}
	}
	return out, nil
}

func matchesAll(fields map[string]any, filters []filterClause) (bool, error) {
	for _, clause := range filters {
		ok, err := matches(fields[clause.field], clause)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matches(have any, clause filterClause) (bool, error) {
	switch clause.op {
	case OpEqual, "":
		return looseEqual(have, clause.value), nil
	case OpNotEqual:
		return !looseEqual(have, clause.value), nil
	case OpLessThan, OpLessOrEqual, OpGreater, OpGreaterOrEqual:
		cmp, ok := compare(have, clause.value)
		if !ok {
			return false, nil
		}
		switch clause.op {
		case OpLessThan:
			return cmp < 0, nil
		case OpLessOrEqual:
			return cmp <= 0, nil
		case OpGreater:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}
	case OpArrayContains:
		items, ok := have.([]any)
		if !ok {
			return false, nil
		}
		for _, item := range items {
			if looseEqual(item, clause.value) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("docstore: unsupported operator %q", clause.op)
	}
}

func looseEqual(a, b any) bool {
	if fa, ok := toFloat64(a); ok {
		if fb, ok := toFloat64(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// compare retorna -1/0/1 para valores numéricos ou strings; ok=false quando
// os tipos não são comparáveis entre si.
func compare(a, b any) (int, bool) {
	if fa, ok := toFloat64(a); ok {
		fb, ok := toFloat64(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

type memoryRecord map[string]any

func (r memoryRecord) Data() (map[string]any, error) {
	return cloneFields(r), nil
}

func (r memoryRecord) Decode(target any) error {
	return DecodeFields(r, target)
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

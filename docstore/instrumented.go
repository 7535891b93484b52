// docstore/instrumented.go
package docstore

import (
	"context"
	"time"

	"github.com/raywall/docmodel-toolkit/metrics"
)

// WithMetrics decora um Store emitindo contadores e latência por operação
// (docstore.get, docstore.set, docstore.delete, docstore.query) com a tag
// da coleção. O provider nil desabilita a instrumentação.
func WithMetrics(store Store, provider metrics.Provider) Store {
	if provider == nil {
		provider = &metrics.NoopProvider{}
	}
	return &instrumentedStore{next: store, provider: provider}
}

type instrumentedStore struct {
	next     Store
	provider metrics.Provider
}

func (s *instrumentedStore) Collection(name string) CollectionRef {
	return &instrumentedCollection{
		next:  s.next.Collection(name),
		store: s,
		tags:  []string{"collection:" + name},
	}
}

type instrumentedCollection struct {
	next  CollectionRef
	store *instrumentedStore
	tags  []string
}

func (c *instrumentedCollection) Doc(id string) DocRef {
	return &instrumentedDoc{next: c.next.Doc(id), store: c.store, tags: c.tags}
}

func (c *instrumentedCollection) Where(field, op string, value any) CollectionRef {
	return &instrumentedCollection{next: c.next.Where(field, op, value), store: c.store, tags: c.tags}
}

func (c *instrumentedCollection) Limit(n int32) CollectionRef {
	return &instrumentedCollection{next: c.next.Limit(n), store: c.store, tags: c.tags}
}

func (c *instrumentedCollection) Documents() DocumentIterator {
	return &instrumentedIterator{next: c.next.Documents(), store: c.store, tags: c.tags}
}

type instrumentedDoc struct {
	next  DocRef
	store *instrumentedStore
	tags  []string
}

func (d *instrumentedDoc) Get(ctx context.Context) (RawRecord, error) {
	start := time.Now()
	rec, err := d.next.Get(ctx)
	d.store.observe("docstore.get", start, err, d.tags)
	return rec, err
}

func (d *instrumentedDoc) Set(ctx context.Context, fields map[string]any) error {
	start := time.Now()
	err := d.next.Set(ctx, fields)
	d.store.observe("docstore.set", start, err, d.tags)
	return err
}

func (d *instrumentedDoc) Delete(ctx context.Context) error {
	start := time.Now()
	err := d.next.Delete(ctx)
	d.store.observe("docstore.delete", start, err, d.tags)
	return err
}

type instrumentedIterator struct {
	next  DocumentIterator
	store *instrumentedStore
	tags  []string
}

func (it *instrumentedIterator) Next(ctx context.Context) (RawRecord, error) {
	start := time.Now()
	rec, err := it.next.Next(ctx)
	if err != ErrIteratorDone {
		it.store.observe("docstore.query", start, err, it.tags)
	}
	return rec, err
}

func (s *instrumentedStore) observe(name string, start time.Time, err error, tags []string) {
	status := "ok"
	if err != nil && err != ErrNotFound {
		status = "error"
	}
	tagged := append(append([]string(nil), tags...), "status:"+status)
	_ = s.provider.Count(name, 1, tagged)
	_ = s.provider.Histogram(name+".latency_ms", float64(time.Since(start).Milliseconds()), tagged)
}

package docmodel

import (
	"github.com/rs/zerolog"

	"github.com/raywall/docmodel-toolkit/docstore"
)

type collectionConfig struct {
	store docstore.Store
	path  string
	clock func() int64
	log   zerolog.Logger
}

// CollectionOption configura uma Collection na construção.
type CollectionOption func(*collectionConfig)

// WithStore vincula a Collection a um store explícito, em vez do default
// do processo.
func WithStore(store docstore.Store) CollectionOption {
	return func(cfg *collectionConfig) { cfg.store = store }
}

// WithCollectionPath substitui o caminho de coleção default (o nome do tipo).
func WithCollectionPath(path string) CollectionOption {
	return func(cfg *collectionConfig) { cfg.path = path }
}

// WithClock substitui a fonte de tempo (milissegundos desde a epoch).
// Existe para tornar os timestamps controláveis em testes.
func WithClock(now func() int64) CollectionOption {
	return func(cfg *collectionConfig) { cfg.clock = now }
}

// WithLogger define o logger usado nos diagnósticos de falhas engolidas.
// O default é um logger no-op.
func WithLogger(log zerolog.Logger) CollectionOption {
	return func(cfg *collectionConfig) { cfg.log = log }
}

type callOptions struct {
	id     string
	path   string
	save   bool
	strict bool
}

// CallOption ajusta uma operação individual (Make, Get, Query, Delete).
// Opções que não se aplicam à operação são ignoradas.
type CallOption func(*callOptions)

// WithID fixa o id do registro em Make, no lugar do UUID gerado.
func WithID(id string) CallOption {
	return func(o *callOptions) { o.id = id }
}

// InCollection substitui o caminho de coleção apenas nesta chamada.
func InCollection(path string) CallOption {
	return func(o *callOptions) { o.path = path }
}

// AndSave faz Make persistir o registro antes de retornar.
func AndSave() CallOption {
	return func(o *callOptions) { o.save = true }
}

// Strict faz Get e Delete propagarem falhas em vez de devolver o valor
// ausente/false.
func Strict() CallOption {
	return func(o *callOptions) { o.strict = true }
}

func applyCallOptions(opts []CallOption) callOptions {
	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}
	return call
}

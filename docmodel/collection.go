package docmodel

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/raywall/docmodel-toolkit/docstore"
)

// recordOf restringe PT a *T implementando Record (struct que embute Model).
type recordOf[T any] interface {
	*T
	Record
}

// Collection é o handle tipado de operações sobre registros do tipo T.
//
// O caminho de coleção default é o nome do tipo T; cada operação aceita
// InCollection para sobrescrevê-lo pontualmente. O store vem de WithStore
// ou, na ausência, do default do processo (SetDefault).
type Collection[T any, PT recordOf[T]] struct {
	store docstore.Store
	path  string
	clock func() int64
	log   zerolog.Logger
}

// NewCollection cria o handle de operações para o tipo T.
//
// Exemplo:
//
//	books := docmodel.NewCollection[Book]()
//	b, err := books.Make(ctx, &Book{Title: "Sirens of Titan"}, docmodel.AndSave())
func NewCollection[T any, PT recordOf[T]](opts ...CollectionOption) *Collection[T, PT] {
	cfg := collectionConfig{
		clock: nowMillis,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.path == "" {
		cfg.path = reflect.TypeOf((*T)(nil)).Elem().Name()
	}

	return &Collection[T, PT]{
		store: cfg.store,
		path:  cfg.path,
		clock: cfg.clock,
		log:   cfg.log,
	}
}

// Path retorna o caminho de coleção default do handle.
func (c *Collection[T, PT]) Path() string { return c.path }

func (c *Collection[T, PT]) resolveStore() (docstore.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	if s := Default(); s != nil {
		return s, nil
	}
	return nil, ErrNotConfigured
}

func (c *Collection[T, PT]) resolvePath(override string) string {
	if override != "" {
		return override
	}
	return c.path
}

// Make inicializa um novo registro: gera um id (UUID v4) quando nenhum foi
// fornecido, marca created = modified = agora e resolve o caminho da
// coleção. Com AndSave, persiste antes de retornar.
//
// Make só toca o banco quando AndSave é usado; sem ele, nenhum store
// precisa estar configurado.
func (c *Collection[T, PT]) Make(ctx context.Context, rec PT, opts ...CallOption) (PT, error) {
	call := applyCallOptions(opts)
	meta := rec.Meta()

	if call.id != "" {
		meta.ID = call.id
	}
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}

	now := c.clock()
	meta.Created = now
	meta.Modified = now
	meta.CollectionPath = c.resolvePath(call.path)

	if call.save {
		if err := c.Save(ctx, rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Get busca e hidrata o registro no caminho resolvido.
//
// O contrato default é de falha suave: documento ausente, erro de transporte
// ou de hidratação resultam em (nil, nil). Com Strict, a falha é propagada.
// ErrNotConfigured propaga sempre, antes de qualquer chamada ao banco.
func (c *Collection[T, PT]) Get(ctx context.Context, id string, opts ...CallOption) (PT, error) {
	call := applyCallOptions(opts)
	st, err := c.resolveStore()
	if err != nil {
		return nil, err
	}
	path := c.resolvePath(call.path)

	raw, err := st.Collection(path).Doc(id).Get(ctx)
	if err == nil {
		var rec PT
		if rec, err = c.hydrate(raw); err == nil {
			return rec, nil
		}
	}
	if call.strict {
		return nil, err
	}
	c.log.Debug().Err(err).Str("collection", path).Str("id", id).Msg("get suppressed a failure")
	return nil, nil
}

// Save persiste o registro inteiro no caminho resolvido na criação.
// Equivale a Set com o conjunto completo de campos; falhas de escrita
// sempre propagam.
func (c *Collection[T, PT]) Save(ctx context.Context, rec PT) error {
	fields, err := docstore.MarshalFields(rec)
	if err != nil {
		return err
	}
	return c.Set(ctx, rec, fields)
}

// Set aplica kvs sobre os campos existentes do registro (chaves
// desconhecidas são descartadas em silêncio), atualiza modified e persiste
// o conjunto completo de campos como substituição total do documento.
func (c *Collection[T, PT]) Set(ctx context.Context, rec PT, kvs map[string]any) error {
	st, err := c.resolveStore()
	if err != nil {
		return err
	}

	current, err := docstore.MarshalFields(rec)
	if err != nil {
		return err
	}
	changed := false
	for k, v := range kvs {
		if _, known := current[k]; known {
			current[k] = v
			changed = true
		}
	}
	if changed {
		if err := docstore.DecodeFields(current, rec); err != nil {
			return fmt.Errorf("docmodel: set failed: %w", err)
		}
	}

	meta := rec.Meta()
	meta.Modified = c.clock()
	if meta.CollectionPath == "" {
		meta.CollectionPath = c.path
	}

	fields, err := docstore.MarshalFields(rec)
	if err != nil {
		return err
	}
	return st.Collection(meta.CollectionPath).Doc(meta.ID).Set(ctx, fields)
}

// Delete remove o documento do registro. Retorna true no sucesso; no erro,
// retorna false registrando um diagnóstico, ou propaga com Strict.
func (c *Collection[T, PT]) Delete(ctx context.Context, rec PT, opts ...CallOption) (bool, error) {
	call := applyCallOptions(opts)
	st, err := c.resolveStore()
	if err != nil {
		return false, err
	}

	meta := rec.Meta()
	path := call.path
	if path == "" {
		path = c.resolvePath(meta.CollectionPath)
	}

	return c.deleteDoc(ctx, st, path, meta.ID, call.strict)
}

// DeleteByID remove o documento no caminho resolvido sem precisar de um
// registro hidratado. Mesmo contrato de falha suave do Delete.
func (c *Collection[T, PT]) DeleteByID(ctx context.Context, id string, opts ...CallOption) (bool, error) {
	call := applyCallOptions(opts)
	st, err := c.resolveStore()
	if err != nil {
		return false, err
	}
	return c.deleteDoc(ctx, st, c.resolvePath(call.path), id, call.strict)
}

func (c *Collection[T, PT]) deleteDoc(ctx context.Context, st docstore.Store, path, id string, strict bool) (bool, error) {
	if err := st.Collection(path).Doc(id).Delete(ctx); err != nil {
		if strict {
			return false, err
		}
		c.log.Error().Err(err).Str("collection", path).Str("id", id).Msg("delete failed")
		return false, nil
	}
	return true, nil
}

// Doc expõe a referência nativa do documento do registro, como válvula de
// escape para operações que a Collection não cobre.
func (c *Collection[T, PT]) Doc(rec PT) (docstore.DocRef, error) {
	st, err := c.resolveStore()
	if err != nil {
		return nil, err
	}
	meta := rec.Meta()
	return st.Collection(c.resolvePath(meta.CollectionPath)).Doc(meta.ID), nil
}

// ToMap exporta todos os campos do registro (inclusive id, created,
// modified e collectionPath) como um mapa plano.
func (c *Collection[T, PT]) ToMap(rec PT) (map[string]any, error) {
	return docstore.MarshalFields(rec)
}

// hydrate é a rotina única de hidratação usada por Get e pelas consultas:
// tipos com RecordUnmarshaler controlam a própria desserialização, os
// demais usam o codec do backend.
func (c *Collection[T, PT]) hydrate(raw docstore.RawRecord) (PT, error) {
	rec := PT(new(T))
	if u, ok := any(rec).(RecordUnmarshaler); ok {
		if err := u.UnmarshalRecord(raw); err != nil {
			return nil, fmt.Errorf("docmodel: hydrate failed: %w", err)
		}
		return rec, nil
	}
	if err := raw.Decode(rec); err != nil {
		return nil, fmt.Errorf("docmodel: hydrate failed: %w", err)
	}
	return rec, nil
}

package docmodel

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/raywall/docmodel-toolkit/docstore"
)

var (
	// ErrNotConfigured é retornado por qualquer operação que toque o banco
	// quando a Collection não tem store próprio e nenhum default foi
	// configurado. Nunca é engolido, nem em modo soft.
	ErrNotConfigured = errors.New("docmodel: store is not configured")

	// ErrAlreadyConfigured é retornado por SetDefault quando um store
	// default diferente já foi registrado.
	ErrAlreadyConfigured = errors.New("docmodel: default store already configured")
)

// Model é a base embutida por todo tipo de registro. Carrega a identidade,
// os timestamps (milissegundos desde a epoch) e o caminho da coleção
// resolvido na criação.
type Model struct {
	ID             string `dynamodbav:"id" json:"id"`
	Created        int64  `dynamodbav:"created" json:"created"`
	Modified       int64  `dynamodbav:"modified" json:"modified"`
	CollectionPath string `dynamodbav:"collectionPath" json:"collectionPath"`
}

// Meta retorna o próprio Model, satisfazendo a interface Record para
// qualquer struct que o embuta.
func (m *Model) Meta() *Model { return m }

// Record é satisfeita por ponteiros para structs que embutem Model.
type Record interface {
	Meta() *Model
}

// RecordUnmarshaler é a capacidade opcional de hidratação customizada.
// Tipos que a implementam controlam como um RawRecord vira registro; os
// demais são decodificados campo a campo pelo codec do backend.
type RecordUnmarshaler interface {
	UnmarshalRecord(raw docstore.RawRecord) error
}

type storeHolder struct {
	store docstore.Store
}

var defaultStore atomic.Pointer[storeHolder]

// SetDefault registra o store default do processo. A atribuição é única e
// segura sob concorrência (compare-and-set): a primeira chamada vence,
// repetir o mesmo store é idempotente e um store diferente resulta em
// ErrAlreadyConfigured.
func SetDefault(store docstore.Store) error {
	if store == nil {
		return ErrNotConfigured
	}
	if defaultStore.CompareAndSwap(nil, &storeHolder{store: store}) {
		return nil
	}
	if defaultStore.Load().store == store {
		return nil
	}
	return ErrAlreadyConfigured
}

// Default retorna o store default do processo, ou nil se nenhum foi
// configurado.
func Default() docstore.Store {
	if h := defaultStore.Load(); h != nil {
		return h.store
	}
	return nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

package docmodel_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/docmodel-toolkit/docmodel"
	"github.com/raywall/docmodel-toolkit/docstore"
)

func TestQuery_FilterTranslation(t *testing.T) {
	t.Parallel()

	t.Run("equality pair", func(t *testing.T) {
		mock := &docstore.MockStore{}
		books := newBooks(mock)

		books.Query([]docmodel.Filter{docmodel.Eq("author", "Kurt Vonnegut")})

		calls := mock.MockCollectionRef("Book").WhereCalls
		require.Len(t, calls, 1)
		assert.Equal(t, docstore.WhereCall{Field: "author", Op: docstore.OpEqual, Value: "Kurt Vonnegut"}, calls[0])
	})

	t.Run("explicit operator triple", func(t *testing.T) {
		mock := &docstore.MockStore{}
		books := newBooks(mock)

		books.Query([]docmodel.Filter{docmodel.Cond("year", docstore.OpGreater, 1950)})

		calls := mock.MockCollectionRef("Book").WhereCalls
		require.Len(t, calls, 1)
		assert.Equal(t, docstore.WhereCall{Field: "year", Op: docstore.OpGreater, Value: 1950}, calls[0])
	})

	t.Run("two filters keep order", func(t *testing.T) {
		mock := &docstore.MockStore{}
		books := newBooks(mock)

		books.Query([]docmodel.Filter{
			docmodel.Eq("author", "Kurt Vonnegut"),
			docmodel.Cond("year", docstore.OpLessThan, 1970),
		})

		calls := mock.MockCollectionRef("Book").WhereCalls
		require.Len(t, calls, 2)
		assert.Equal(t, "author", calls[0].Field)
		assert.Equal(t, "year", calls[1].Field)
	})

	t.Run("empty operator defaults to equality", func(t *testing.T) {
		mock := &docstore.MockStore{}
		books := newBooks(mock)

		books.Query([]docmodel.Filter{{Field: "author", Value: "Kurt Vonnegut"}})

		calls := mock.MockCollectionRef("Book").WhereCalls
		require.Len(t, calls, 1)
		assert.Equal(t, docstore.OpEqual, calls[0].Op)
	})
}

func TestQuery_CollectionOverride(t *testing.T) {
	t.Parallel()

	mock := &docstore.MockStore{}
	books := newBooks(mock)

	books.Query([]docmodel.Filter{docmodel.Eq("author", "x")}, docmodel.InCollection("shelf"))

	assert.Empty(t, mock.MockCollectionRef("Book").WhereCalls)
	assert.Len(t, mock.MockCollectionRef("shelf").WhereCalls, 1)
}

func TestQuery_LimitReassignsHandle(t *testing.T) {
	t.Parallel()

	mock := &docstore.MockStore{}
	books := newBooks(mock)

	q := books.Query(nil).Limit(10)
	assert.Equal(t, []int32{10}, mock.MockCollectionRef("Book").LimitCalls)

	// depois de executada, Limit não tem efeito
	q.Get()
	q.Limit(99)
	assert.Equal(t, []int32{10}, mock.MockCollectionRef("Book").LimitCalls)
}

func TestQuery_LimitCapsResults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := docstore.NewMemory()
	books := newBooks(store)

	for _, title := range []string{"A", "B", "C", "D"} {
		_, err := books.Make(ctx, &Book{Title: title, Author: "x"}, docmodel.AndSave())
		require.NoError(t, err)
	}

	results, err := books.Query([]docmodel.Filter{docmodel.Eq("author", "x")}).
		Limit(2).
		Get().
		All(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQuery_SinglePass(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	books := newBooks(docstore.NewMemory())
	_, err := books.Make(ctx, &Book{Title: "Player Piano"}, docmodel.AndSave())
	require.NoError(t, err)

	q := books.Query(nil)
	it := q.Get()

	first, err := it.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = it.Next(ctx)
	assert.ErrorIs(t, err, docmodel.ErrDone)

	// Get devolve o mesmo iterador, já consumido
	again := q.Get()
	assert.Same(t, it, again)
	_, err = again.Next(ctx)
	assert.ErrorIs(t, err, docmodel.ErrDone)
}

func TestQuery_ExecutionErrorsPropagate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	boom := errors.New("throttled")
	mock := &docstore.MockStore{}
	mock.MockCollectionRef("Book").DocumentsFn = func() docstore.DocumentIterator {
		return &docstore.MockIterator{Err: boom}
	}
	books := newBooks(mock)

	_, err := books.Query(nil).Get().Next(ctx)
	assert.ErrorIs(t, err, boom, "erros de consulta nunca são engolidos")
}

func TestQuery_HydratesRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mock := &docstore.MockStore{}
	mock.MockCollectionRef("Book").DocumentsFn = func() docstore.DocumentIterator {
		return &docstore.MockIterator{Records: []docstore.RawRecord{
			docstore.MockRecord{"id": "b1", "title": "Sirens of Titan", "year": 1959},
			docstore.MockRecord{"id": "b2", "title": "Cat's Cradle", "year": 1963},
		}}
	}
	books := newBooks(mock)

	results, err := books.Query(nil).Get().All(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Sirens of Titan", results[0].Title)
	assert.Equal(t, 1963, results[1].Year)
}

// shoutingBook controla a própria hidratação via RecordUnmarshaler.
type shoutingBook struct {
	docmodel.Model
	Title string `dynamodbav:"title"`
}

func (b *shoutingBook) UnmarshalRecord(raw docstore.RawRecord) error {
	if err := raw.Decode(b); err != nil {
		return err
	}
	b.Title = strings.ToUpper(b.Title)
	return nil
}

func TestQuery_CustomUnmarshaler(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := docstore.NewMemory()
	require.NoError(t, store.Collection("shoutingBook").Doc("b1").Set(ctx, map[string]any{
		"id":    "b1",
		"title": "Sirens of Titan",
	}))

	col := docmodel.NewCollection[shoutingBook](docmodel.WithStore(store))

	// a mesma rotina de hidratação serve Get e Query
	got, err := col.Get(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "SIRENS OF TITAN", got.Title)

	results, err := col.Query(nil).Get().All(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "SIRENS OF TITAN", results[0].Title)
}

func TestQuery_EscapeHatchHandle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	books := newBooks(docstore.NewMemory())
	for i := 0; i < 3; i++ {
		_, err := books.Make(ctx, &Book{Author: "x"}, docmodel.AndSave())
		require.NoError(t, err)
	}

	q := books.Query([]docmodel.Filter{docmodel.Eq("author", "x")})
	// refinamento direto no handle nativo, antes da execução
	q.Ref = q.Ref.Limit(1)

	results, err := q.Get().All(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

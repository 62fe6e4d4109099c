package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type testDoc struct {
	ID   string   `bson:"_id"`
	Name string   `bson:"name"`
	Tags []string `bson:"tags,omitempty"`
}

func TestSaveAndGet(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "docs", "d1", testDoc{ID: "d1", Name: "first"}))

	var got testDoc
	require.NoError(t, s.Get(ctx, "docs", "d1", &got))
	require.Equal(t, "first", got.Name)
}

func TestGetMissing(t *testing.T) {
	s := NewMemStore()

	var got testDoc
	err := s.Get(context.Background(), "docs", "nope", &got)
	require.ErrorIs(t, err, ErrNoDoc)
}

func TestDeleteReportsExistence(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "docs", "d1", testDoc{ID: "d1"}))

	deleted, err := s.Delete(ctx, "docs", "d1")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = s.Delete(ctx, "docs", "d1")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestGetAllSortedByID(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Save(ctx, "docs", id, testDoc{ID: id}))
	}

	docs, err := s.GetAll(ctx, "docs")
	require.NoError(t, err)
	require.Len(t, docs, 3)

	var ids []string
	for _, raw := range docs {
		var d testDoc
		require.NoError(t, bson.Unmarshal(raw, &d))
		ids = append(ids, d.ID)
	}
	require.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestAddToSetDeduplicates(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "docs", "d1", testDoc{ID: "d1", Tags: []string{"x"}}))

	require.NoError(t, s.AddToSet(ctx, "docs", "d1", "tags", []any{"x", "y"}, nil))
	require.NoError(t, s.AddToSet(ctx, "docs", "d1", "tags", []any{"y"}, nil))

	var got testDoc
	require.NoError(t, s.Get(ctx, "docs", "d1", &got))
	require.Equal(t, []string{"x", "y"}, got.Tags)
}

func TestAddToSetAppliesSetFields(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "docs", "d1", testDoc{ID: "d1"}))
	require.NoError(t, s.AddToSet(ctx, "docs", "d1", "tags", []any{"x"}, map[string]any{"name": "renamed"}))

	var got testDoc
	require.NoError(t, s.Get(ctx, "docs", "d1", &got))
	require.Equal(t, "renamed", got.Name)
	require.Equal(t, []string{"x"}, got.Tags)
}

func TestAddToSetMissingDoc(t *testing.T) {
	s := NewMemStore()

	err := s.AddToSet(context.Background(), "docs", "nope", "tags", []any{"x"}, nil)
	require.ErrorIs(t, err, ErrNoDoc)
}

func TestTransactionCommit(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	err := s.RunTransaction(ctx, func(txn Txn) error {
		if err := txn.Set("docs", "d1", testDoc{ID: "d1", Name: "one"}); err != nil {
			return err
		}
		return txn.Set("docs", "d2", testDoc{ID: "d2", Name: "two"})
	})
	require.NoError(t, err)

	var got testDoc
	require.NoError(t, s.Get(ctx, "docs", "d2", &got))
	require.Equal(t, "two", got.Name)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "docs", "d1", testDoc{ID: "d1", Name: "original"}))

	boom := errors.New("boom")
	err := s.RunTransaction(ctx, func(txn Txn) error {
		if err := txn.Set("docs", "d1", testDoc{ID: "d1", Name: "dirty"}); err != nil {
			return err
		}
		if err := txn.Set("docs", "d2", testDoc{ID: "d2"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var got testDoc
	require.NoError(t, s.Get(ctx, "docs", "d1", &got))
	require.Equal(t, "original", got.Name)

	err = s.Get(ctx, "docs", "d2", &got)
	require.ErrorIs(t, err, ErrNoDoc)
}

func TestTransactionDelete(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "docs", "d1", testDoc{ID: "d1"}))

	err := s.RunTransaction(ctx, func(txn Txn) error {
		return txn.Delete("docs", "d1")
	})
	require.NoError(t, err)

	var got testDoc
	require.ErrorIs(t, s.Get(ctx, "docs", "d1", &got), ErrNoDoc)
}

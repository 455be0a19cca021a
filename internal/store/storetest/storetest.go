// Package storetest - общий набор проверок для реализаций store.DocumentStore.
package storetest

import (
	"context"
	"testing"
	"todoTracker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collection = "tasks"

// Run прогоняет проверки контракта; factory должна возвращать пустое хранилище
func Run(t *testing.T, factory func(t *testing.T) store.DocumentStore) {
	t.Run("insert and fetch one", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)

		id, err := s.Insert(ctx, collection, store.Record{"taskName": "Купить молоко", "hasOverDue": false})
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		record, ok, err := s.FetchOne(ctx, collection, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Купить молоко", record["taskName"])
		assert.Equal(t, false, record["hasOverDue"])
	})

	t.Run("insert assigns unique ids", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)

		first, err := s.Insert(ctx, collection, store.Record{"taskName": "a"})
		require.NoError(t, err)
		second, err := s.Insert(ctx, collection, store.Record{"taskName": "a"})
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("fetch one absent", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)

		record, ok, err := s.FetchOne(ctx, collection, "00000000-0000-0000-0000-000000000001")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, record)
	})

	t.Run("fetch all", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)

		empty, err := s.FetchAll(ctx, collection)
		require.NoError(t, err)
		assert.Empty(t, empty)

		ids := map[string]bool{}
		for _, name := range []string{"first", "second", "third"} {
			id, err := s.Insert(ctx, collection, store.Record{"taskName": name})
			require.NoError(t, err)
			ids[id] = true
		}
		_, err = s.Insert(ctx, "other", store.Record{"taskName": "чужая коллекция"})
		require.NoError(t, err)

		docs, err := s.FetchAll(ctx, collection)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		for _, doc := range docs {
			assert.True(t, ids[doc.ID])
			assert.NotEmpty(t, doc.Record["taskName"])
		}
	})

	t.Run("merge keeps untouched fields", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)

		id, err := s.Insert(ctx, collection, store.Record{"taskName": "x", "status": "Pending", "hasOverDue": false})
		require.NoError(t, err)

		err = s.Merge(ctx, collection, id, store.Record{"hasOverDue": true})
		require.NoError(t, err)

		record, ok, err := s.FetchOne(ctx, collection, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "x", record["taskName"])
		assert.Equal(t, "Pending", record["status"])
		assert.Equal(t, true, record["hasOverDue"])
	})

	t.Run("merge absent", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)

		err := s.Merge(ctx, collection, "00000000-0000-0000-0000-000000000002", store.Record{"status": "Completed"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)

		id, err := s.Insert(ctx, collection, store.Record{"taskName": "x"})
		require.NoError(t, err)

		require.NoError(t, s.Remove(ctx, collection, id))

		_, ok, err := s.FetchOne(ctx, collection, id)
		require.NoError(t, err)
		assert.False(t, ok)

		err = s.Remove(ctx, collection, id)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		s := factory(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}

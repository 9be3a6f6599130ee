package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

func testRecord(nit string) Record {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return Record{
		NIT:          domain.NIT(nit),
		Name:         "Comercio de Prueba",
		SchemeKey:    "pse-basico",
		CreatedAt:    now,
		LastModified: now,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("find missing returns ErrNotFound", func(t *testing.T) {
		store := NewInMemoryStore()
		_, err := store.Find(ctx, domain.NIT("1234567890"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save then find round trips", func(t *testing.T) {
		store := NewInMemoryStore()
		record := testRecord("1234567890")
		require.NoError(t, store.Save(ctx, record))

		found, err := store.Find(ctx, record.NIT)
		require.NoError(t, err)
		assert.Equal(t, record, found)
	})

	t.Run("save overwrites", func(t *testing.T) {
		store := NewInMemoryStore()
		record := testRecord("1234567890")
		require.NoError(t, store.Save(ctx, record))

		record.Name = "Nuevo Nombre"
		require.NoError(t, store.Save(ctx, record))

		found, err := store.Find(ctx, record.NIT)
		require.NoError(t, err)
		assert.Equal(t, "Nuevo Nombre", found.Name)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := NewInMemoryStore()
		record := testRecord("1234567890")
		require.NoError(t, store.Save(ctx, record))
		require.NoError(t, store.Delete(ctx, record.NIT))
		require.NoError(t, store.Delete(ctx, record.NIT))

		_, err := store.Find(ctx, record.NIT)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list returns every record", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Save(ctx, testRecord("1111111111")))
		require.NoError(t, store.Save(ctx, testRecord("2222222222")))

		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

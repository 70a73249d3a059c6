package inventory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeFeed(t *testing.T, vehicles []Vehicle) string {
	t.Helper()
	data, err := json.Marshal(vehicles)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestStoreImportAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	feed := writeFeed(t, []Vehicle{
		{VIN: "VIN1", Make: "Toyota", Model: "Camry", Year: 2023, Trim: "SE", Price: 28000, Mileage: 5000, Status: StatusAvailable},
		{VIN: "VIN2", Make: "Toyota", Model: "Camry", Year: 2022, Price: 24000, Mileage: 21000, Status: StatusAvailable},
		{VIN: "VIN3", Make: "Toyota", Model: "Camry", Year: 2023, Price: 27000, Mileage: 9000, Status: StatusSold},
		{VIN: "VIN4", Make: "Honda", Model: "Civic", Year: 2024, Price: 26500, Status: ""},
	})

	n, err := store.ImportFeed(ctx, feed)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	t.Run("case insensitive match excluding sold", func(t *testing.T) {
		got, err := store.Search(ctx, Query{Make: "toyota", Model: "CAMRY"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		// Newest year first.
		assert.Equal(t, "VIN1", got[0].VIN)
		assert.Equal(t, "VIN2", got[1].VIN)
	})

	t.Run("year filter", func(t *testing.T) {
		got, err := store.Search(ctx, Query{Make: "Toyota", Year: 2022})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "VIN2", got[0].VIN)
	})

	t.Run("max price filter", func(t *testing.T) {
		got, err := store.Search(ctx, Query{MaxPrice: 25000})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "VIN2", got[0].VIN)
	})

	t.Run("empty status defaults to available", func(t *testing.T) {
		v, err := store.GetByVIN(ctx, "VIN4")
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, StatusAvailable, v.Status)
	})

	t.Run("unknown vin is nil", func(t *testing.T) {
		v, err := store.GetByVIN(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestStoreImportReplacesSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := writeFeed(t, []Vehicle{
		{VIN: "OLD1", Make: "Ford", Model: "F-150", Year: 2022, Price: 45000},
	})
	_, err := store.ImportFeed(ctx, first)
	require.NoError(t, err)

	second := writeFeed(t, []Vehicle{
		{VIN: "NEW1", Make: "Ford", Model: "Bronco", Year: 2024, Price: 42000},
	})
	n, err := store.ImportFeed(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	old, err := store.GetByVIN(ctx, "OLD1")
	require.NoError(t, err)
	assert.Nil(t, old, "previous snapshot must be gone")

	got, err := store.Search(ctx, Query{Make: "Ford"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NEW1", got[0].VIN)
}

func TestStoreImportFeedErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := store.ImportFeed(ctx, filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json keeps existing data", func(t *testing.T) {
		good := writeFeed(t, []Vehicle{{VIN: "KEEP", Make: "Toyota", Model: "Camry", Year: 2023}})
		_, err := store.ImportFeed(ctx, good)
		require.NoError(t, err)

		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
		_, err = store.ImportFeed(ctx, bad)
		require.Error(t, err)

		v, err := store.GetByVIN(ctx, "KEEP")
		require.NoError(t, err)
		assert.NotNil(t, v)
	})
}

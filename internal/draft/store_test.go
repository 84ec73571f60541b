package draft

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "draft.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"sqlite": openTestSQLite(t),
		"memory": NewMemoryStore(0),
	}
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			first := form.Data{Name: "First", PestTypes: []string{"ants"}}
			second := form.Data{Name: "Second", Address: "पुणे"}
			require.NoError(t, store.Save(ctx, first))
			require.NoError(t, store.Save(ctx, second))

			got, ok, err := store.Load(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, second, got)

			// Loading consumed it
			_, ok, err = store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Save(ctx, first))
			require.NoError(t, store.Clear(ctx))
			_, ok, err = store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, store.Clear(ctx))
		})
	}
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite(" ")
	assert.Error(t, err)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "draft.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, form.Data{Phone: "9876543210"}))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "9876543210", got.Phone)
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(20 * time.Millisecond)
	require.NoError(t, store.Save(ctx, form.Data{Name: "x"}))

	time.Sleep(40 * time.Millisecond)

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestore_AppliesDraftAtMostOnce(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			hero := form.Data{
				Name:      "Asha Rao",
				Phone:     "9876543210",
				Address:   "Bandra West",
				PestTypes: []string{"cockroaches", "termites"},
			}
			query, err := Handoff(ctx, store, hero)
			require.NoError(t, err)

			first, err := Restore(ctx, store, query)
			require.NoError(t, err)
			assert.Equal(t, hero, first)

			second, err := Restore(ctx, store, "")
			require.NoError(t, err)
			assert.True(t, second.IsZero())
		})
	}
}

func TestRestore_QueryOverridesDraft(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	require.NoError(t, store.Save(ctx, form.Data{
		Name:      "Draft Name",
		Phone:     "9876543210",
		PestTypes: []string{"ants"},
	}))

	got, err := Restore(ctx, store, "name=Query+Name&pestTypes=rodents")
	require.NoError(t, err)

	assert.Equal(t, form.Data{
		Name:      "Query Name",
		Phone:     "9876543210",
		PestTypes: []string{"rodents"},
	}, got)
}

func TestRestore_NilStoreUsesQuery(t *testing.T) {
	got, err := Restore(context.Background(), nil, "phone=1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.Phone)
}

type failingLoadStore struct {
	*MemoryStore
}

func (f failingLoadStore) Load(context.Context) (form.Data, bool, error) {
	return form.Data{}, false, errors.New("database is locked")
}

func TestRestore_UnreadableDraftFallsBackToQuery(t *testing.T) {
	ctx := context.Background()
	store := failingLoadStore{NewMemoryStore(0)}
	require.NoError(t, store.Save(ctx, form.Data{Name: "stale"}))

	got, err := Restore(ctx, store, "phone=9876543210")
	require.NoError(t, err)
	assert.Equal(t, form.Data{Phone: "9876543210"}, got)
}

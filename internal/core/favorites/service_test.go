package favorites

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/store"
	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, store.KV) {
	kv := store.NewMemoryStore()
	s := NewService(kv)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s, kv
}

func TestToggle(t *testing.T) {
	s, kv := newTestService()
	ctx := context.Background()
	r := recipe.Recipe{ID: "grilled-cheese", Name: "Grilled Cheese"}

	added, err := s.Toggle(ctx, "alice", r)
	require.NoError(t, err)
	assert.True(t, added)

	favs, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, Favorite{ID: "grilled-cheese", Name: "Grilled Cheese", AddedAt: s.now()}, favs[0])

	ok, err := s.IsFavorite(ctx, "alice", "grilled-cheese")
	require.NoError(t, err)
	assert.True(t, ok)

	added, err = s.Toggle(ctx, "alice", r)
	require.NoError(t, err)
	assert.False(t, added)

	favs, err = s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, favs)

	_, err = kv.Get(ctx, "favorites:alice")
	assert.ErrorIs(t, err, store.ErrNotFound, "empty lists are not persisted")
}

func TestListsArePerUser(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.Toggle(ctx, "alice", recipe.Recipe{ID: "1", Name: "Toast"})
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "bob", recipe.Recipe{ID: "2", Name: "Salad"})
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "alice", recipe.Recipe{ID: "3", Name: "Soup"})
	require.NoError(t, err)

	favs, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "1", favs[0].ID)
	assert.Equal(t, "3", favs[1].ID)

	ok, err := s.IsFavorite(ctx, "bob", "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToggleMatchesByNameWithoutID(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.Toggle(ctx, "alice", recipe.Recipe{Name: "Grilled Cheese"})
	require.NoError(t, err)

	added, err := s.Toggle(ctx, "alice", recipe.Recipe{ID: "grilled-cheese", Name: "grilled cheese"})
	require.NoError(t, err)
	assert.False(t, added)
}

func TestRemove(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.Toggle(ctx, "alice", recipe.Recipe{ID: "1", Name: "Toast"})
	require.NoError(t, err)

	removed, err := s.Remove(ctx, "alice", "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = s.Remove(ctx, "alice", "1")
	require.NoError(t, err)
	assert.True(t, removed)

	favs, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestBlankUser(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.List(ctx, "  ")
	assert.True(t, common.IsValidationError(err))
	_, err = s.Toggle(ctx, "", recipe.Recipe{ID: "1"})
	assert.True(t, common.IsValidationError(err))
	_, err = s.Remove(ctx, "", "1")
	assert.True(t, common.IsValidationError(err))
}

type failingKV struct{ store.KV }

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailure(t *testing.T) {
	s := NewService(failingKV{})

	_, err := s.List(context.Background(), "alice")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user := &User{ID: 3, Username: "C", Email: "c@b.com"}
	require.NoError(t, store.Save(ctx, "tok3", user))

	got, ok := store.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
	assert.True(t, store.HasToken(ctx))
}

func TestMemoryStore_ClearIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Save(ctx, "tok", &User{ID: 1}))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	assert.False(t, store.HasToken(ctx))
	_, ok := store.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestMemoryStore_Empty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.False(t, store.HasToken(ctx))
	_, ok := store.Token(ctx)
	assert.False(t, ok)
	_, ok = store.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestMemoryStore_SetInconsistent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetInconsistent("tok")

	assert.True(t, store.HasToken(ctx))
	_, ok := store.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestMemoryStore_CallerCannotMutateStoredUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "tok", &User{ID: 1, Username: "A"}))

	got, ok := store.CurrentUser(ctx)
	require.True(t, ok)
	got.Username = "mutated"

	again, ok := store.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, "A", again.Username)
}

func TestDecodeRecord_NullUser(t *testing.T) {
	rec, err := decodeRecord([]byte(`{"token":"tok","user":null}`))
	require.NoError(t, err)
	assert.Equal(t, "tok", rec.Token)
	assert.Nil(t, rec.User)
}

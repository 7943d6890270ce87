package fsm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "telegram", "chat-1", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	sess := Session{State: StateProjectName, Data: NewData()}
	require.NoError(t, store.Set(ctx, "telegram", "chat-1", "user-1", sess))

	got, ok, err := store.Get(ctx, "telegram", "chat-1", "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StateProjectName, got.State)

	require.NoError(t, store.Clear(ctx, "telegram", "chat-1", "user-1"))
	_, ok, err = store.Get(ctx, "telegram", "chat-1", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRouter_DispatchAdvancesState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	router := NewRouter(store)

	router.On(StateProjectName, func(_ context.Context, sess Session, text string) (State, Data, string, error) {
		sess.Data.Fields["name"] = text
		return StateProjectAddress, sess.Data, "got the name, now the address?", nil
	})

	require.NoError(t, store.Set(ctx, "telegram", "chat-1", "user-1", Session{State: StateProjectName, Data: NewData()}))

	reply, err := router.Dispatch(ctx, "telegram", "chat-1", "user-1", "Квартира на Ленина")
	require.NoError(t, err)
	assert.Equal(t, "got the name, now the address?", reply)

	got, ok, err := store.Get(ctx, "telegram", "chat-1", "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StateProjectAddress, got.State)
	assert.Equal(t, "Квартира на Ленина", got.Data.Fields["name"])
}

func TestRouter_NoneStateClearsSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	router := NewRouter(store)

	router.On(StateProjectConfirm, func(_ context.Context, sess Session, text string) (State, Data, string, error) {
		return StateNone, sess.Data, "project created", nil
	})
	require.NoError(t, store.Set(ctx, "telegram", "chat-1", "user-1", Session{State: StateProjectConfirm, Data: NewData()}))

	reply, err := router.Dispatch(ctx, "telegram", "chat-1", "user-1", "yes")
	require.NoError(t, err)
	assert.Equal(t, "project created", reply)

	inFlow, err := router.InFlow(ctx, "telegram", "chat-1", "user-1")
	require.NoError(t, err)
	assert.False(t, inFlow)
}

func TestRouter_StartOpensFlow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	router := NewRouter(store)

	data := NewData()
	data.Fields["tenant_id"] = "t-1"
	require.NoError(t, router.Start(ctx, "telegram", "chat-1", "user-1", StateProjectName, data))

	inFlow, err := router.InFlow(ctx, "telegram", "chat-1", "user-1")
	require.NoError(t, err)
	assert.True(t, inFlow)

	got, ok, err := store.Get(ctx, "telegram", "chat-1", "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StateProjectName, got.State)
	assert.Equal(t, "t-1", got.Data.Fields["tenant_id"])
}

func TestRouter_StartReplacesExistingSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	router := NewRouter(store)

	require.NoError(t, store.Set(ctx, "telegram", "chat-1", "user-1", Session{State: StateRolePickUser, Data: NewData()}))
	require.NoError(t, router.Start(ctx, "telegram", "chat-1", "user-1", StateProjectConfirm, NewData()))

	got, ok, err := store.Get(ctx, "telegram", "chat-1", "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StateProjectConfirm, got.State)
}

func TestState_Group(t *testing.T) {
	assert.Equal(t, "project", StateProjectName.Group())
	assert.Equal(t, "", StateNone.Group())
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "credx-gateway/internal/common/errors"
	"credx-gateway/internal/intake"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStoreWithClient(client, 30*time.Minute)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Nil(t, sess.Form)

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.WithinDuration(t, sess.CreatedAt, loaded.CreatedAt, time.Second)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-session")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeSessionNotFound, stderrors.CodeOf(err))
}

func TestStore_SaveRoundTripsFormState(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	sess.Form = &intake.FormState{
		Phase:     intake.PhaseEditing,
		Fields:    map[string]string{"applicant_id": "Asha", "age": "35"},
		LastError: "The scoring service took too long to respond.",
	}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Form)
	assert.Equal(t, intake.PhaseEditing, loaded.Form.Phase)
	assert.Equal(t, "Asha", loaded.Form.Fields["applicant_id"])
	assert.Equal(t, sess.Form.LastError, loaded.Form.LastError)
}

func TestStore_SaveRestartsTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(20 * time.Minute)
	require.NoError(t, store.Save(ctx, sess))
	mr.FastForward(20 * time.Minute)

	// 40 minutes since creation but only 20 since the last save.
	_, err = store.Get(ctx, sess.ID)
	assert.NoError(t, err)
}

func TestStore_ExpiredSessionIsGone(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = store.Get(ctx, sess.ID)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeSessionNotFound, stderrors.CodeOf(err))
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err = store.Get(ctx, sess.ID)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeSessionNotFound, stderrors.CodeOf(err))
}

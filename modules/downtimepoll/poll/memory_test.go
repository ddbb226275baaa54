package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	open, err := store.IsOpen(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, open)

	require.NoError(t, store.SetOpen(ctx, "a", true))
	open, _ = store.IsOpen(ctx, "a")
	assert.True(t, open)
	open, _ = store.IsOpen(ctx, "b")
	assert.False(t, open, "scopes are isolated")

	first, err := store.Add(ctx, "a", Guess{SubmitterID: "u1", Time: MustParse("15:30")})
	require.NoError(t, err)
	_, err = store.Add(ctx, "a", Guess{SubmitterID: "u1", Time: MustParse("16:00")})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	second, err := store.Add(ctx, "b", Guess{SubmitterID: "u1", Time: MustParse("16:00")})
	require.NoError(t, err)
	assert.Greater(t, second.Seq, first.Seq)

	list, err := store.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, MustParse("15:30"), list[0].Time)

	require.NoError(t, store.Clear(ctx, "a"))
	require.NoError(t, store.Clear(ctx, "a"))
	list, _ = store.List(ctx, "a")
	assert.Empty(t, list)
	list, _ = store.List(ctx, "b")
	assert.Len(t, list, 1)
}

func TestMemoryStore_AtomicRollback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetOpen(ctx, "a", true))
	_, err := store.Add(ctx, "a", Guess{SubmitterID: "u1", Time: MustParse("10:00")})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Atomic(ctx, "a", func(tx Store) error {
		require.NoError(t, tx.SetOpen(ctx, "a", false))
		require.NoError(t, tx.Clear(ctx, "a"))
		_, err := tx.Add(ctx, "a", Guess{SubmitterID: "u2", Time: MustParse("11:00")})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	open, _ := store.IsOpen(ctx, "a")
	assert.True(t, open)
	list, _ := store.List(ctx, "a")
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].SubmitterID)

	err = store.Atomic(ctx, "a", func(tx Store) error {
		return tx.SetOpen(ctx, "b", true)
	})
	assert.ErrorIs(t, err, ErrScopeMismatch)
}

func TestMemoryStore_ConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	var locker sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Add(ctx, "a", Guess{SubmitterID: "same", Time: TimeOfDay{Hour: 10, Minute: i}})
			if err == nil {
				locker.Lock()
				accepted++
				locker.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrAlreadySubmitted)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	list, _ := store.List(ctx, "a")
	assert.Len(t, list, 1)
}

func TestUnavailable(t *testing.T) {
	assert.Nil(t, Unavailable(nil))
	assert.Same(t, ErrAlreadySubmitted, Unavailable(ErrAlreadySubmitted))

	err := Unavailable(fmt.Errorf("disk full"))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, err, Unavailable(err))
}

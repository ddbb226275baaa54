package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lordralex/downtimepoll/modules/downtimepoll/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore runs the behaviour every poll.Store must share. Scopes are
// prefixed so runs against a shared database do not collide.
func testStore(t *testing.T, store poll.Store, prefix string) {
	ctx := context.Background()
	scope := func(name string) string {
		return prefix + name
	}

	t.Run("unknown scope is closed", func(t *testing.T) {
		open, err := store.IsOpen(ctx, scope("unknown"))
		require.NoError(t, err)
		assert.False(t, open)
	})

	t.Run("open flag", func(t *testing.T) {
		require.NoError(t, store.SetOpen(ctx, scope("flag"), true))
		open, err := store.IsOpen(ctx, scope("flag"))
		require.NoError(t, err)
		assert.True(t, open)

		require.NoError(t, store.SetOpen(ctx, scope("flag"), false))
		open, _ = store.IsOpen(ctx, scope("flag"))
		assert.False(t, open)
	})

	t.Run("one guess per submitter", func(t *testing.T) {
		submitted := time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC)
		first, err := store.Add(ctx, scope("guess"), poll.Guess{SubmitterID: "u1", DisplayName: "One", Time: poll.MustParse("15:30"), SubmittedAt: submitted})
		require.NoError(t, err)
		_, err = store.Add(ctx, scope("guess"), poll.Guess{SubmitterID: "u1", Time: poll.MustParse("16:00")})
		assert.ErrorIs(t, err, poll.ErrAlreadySubmitted)
		second, err := store.Add(ctx, scope("guess"), poll.Guess{SubmitterID: "u2", Time: poll.MustParse("16:00")})
		require.NoError(t, err)
		assert.Greater(t, second.Seq, first.Seq)

		list, err := store.List(ctx, scope("guess"))
		require.NoError(t, err)
		poll.SortBySubmission(list)
		require.Len(t, list, 2)
		assert.Equal(t, "u1", list[0].SubmitterID)
		assert.Equal(t, "One", list[0].DisplayName)
		assert.Equal(t, poll.MustParse("15:30"), list[0].Time)
		assert.True(t, submitted.Equal(list[0].SubmittedAt))
		assert.Equal(t, first.Seq, list[0].Seq)

		other, _ := store.List(ctx, scope("other"))
		assert.Empty(t, other)

		require.NoError(t, store.Clear(ctx, scope("guess")))
		require.NoError(t, store.Clear(ctx, scope("guess")))
		list, _ = store.List(ctx, scope("guess"))
		assert.Empty(t, list)
	})

	t.Run("atomic rollback", func(t *testing.T) {
		require.NoError(t, store.SetOpen(ctx, scope("tx"), true))
		_, err := store.Add(ctx, scope("tx"), poll.Guess{SubmitterID: "u1", Time: poll.MustParse("10:00")})
		require.NoError(t, err)

		boom := errors.New("boom")
		err = store.Atomic(ctx, scope("tx"), func(tx poll.Store) error {
			if err := tx.SetOpen(ctx, scope("tx"), false); err != nil {
				return err
			}
			if err := tx.Clear(ctx, scope("tx")); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		open, _ := store.IsOpen(ctx, scope("tx"))
		assert.True(t, open)
		list, _ := store.List(ctx, scope("tx"))
		assert.Len(t, list, 1)

		err = store.Atomic(ctx, scope("tx"), func(tx poll.Store) error {
			return tx.Clear(ctx, scope("elsewhere"))
		})
		assert.ErrorIs(t, err, poll.ErrScopeMismatch)
	})

	t.Run("concurrent submissions", func(t *testing.T) {
		require.NoError(t, store.SetOpen(ctx, scope("race"), true))
		var wg sync.WaitGroup
		var locker sync.Mutex
		accepted := 0
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := store.Atomic(ctx, scope("race"), func(tx poll.Store) error {
					_, err := tx.Add(ctx, scope("race"), poll.Guess{SubmitterID: "same", Time: poll.TimeOfDay{Hour: 8, Minute: i}})
					return err
				})
				if err == nil {
					locker.Lock()
					accepted++
					locker.Unlock()
				} else {
					assert.ErrorIs(t, err, poll.ErrAlreadySubmitted)
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, accepted)
	})

	t.Run("manager round trip", func(t *testing.T) {
		m := poll.NewManager(store, nil, poll.Options{})
		op := poll.Caller{ID: "mod", Operator: true}
		require.NoError(t, m.Open(ctx, scope("round"), op))
		for i, v := range []string{"18:20", "18:23", "18:26"} {
			_, err := m.Submit(ctx, scope("round"), poll.Caller{ID: fmt.Sprintf("u%d", i)}, v)
			require.NoError(t, err)
		}
		result, err := m.Close(ctx, scope("round"), op, "18:23")
		require.NoError(t, err)
		assert.Equal(t, "u1", result.Winner.SubmitterID)
		assert.Zero(t, result.Winner.DistanceSeconds)
		m.Sessions().Stop()
	})
}

package downtimepoll

import (
	"testing"
	"time"

	"github.com/lordralex/downtimepoll/modules/downtimepoll/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_Stop(t *testing.T) {
	defer func() { manager = nil }()

	t.Run("not loaded", func(t *testing.T) {
		manager = nil
		assert.NotPanics(t, func() { (&Module{}).Stop() })
	})

	t.Run("expires live guess lists", func(t *testing.T) {
		expired := make([]string, 0)
		sessions := poll.NewSessions(poll.SessionOptions{
			Timeout: time.Hour,
			OnExpire: func(s *poll.Session) {
				expired = append(expired, s.ID)
			},
		})
		manager = poll.NewManager(poll.NewMemoryStore(), sessions, poll.Options{})

		s := sessions.Start("guild", "u1", []poll.Guess{{SubmitterID: "u1", Time: poll.MustParse("18:23")}})
		require.NotNil(t, sessions.Get(s.ID))

		(&Module{}).Stop()
		assert.Equal(t, []string{s.ID}, expired)
		assert.Nil(t, sessions.Get(s.ID))
		assert.True(t, s.IsExpired(time.Now()))
	})
}

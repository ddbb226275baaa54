package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Setenv("DOWNTIMEPOLL_FOOTER", "iRacing patch poll")
	assert.Equal(t, "iRacing patch poll", Get("downtimepoll.footer"))
	assert.Equal(t, "fallback", GetOr("downtimepoll.missing", "fallback"))

	Set("downtimepoll.footer", "override")
	defer Unset("downtimepoll.footer")
	assert.Equal(t, "override", Get("downtimepoll.footer"))
}

func TestGet_SecretFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(file, []byte("  secret-token\n"), 0600))
	t.Setenv("TEST_TOKEN_FILE", file)
	defer Unset("test.token")

	assert.Equal(t, "secret-token", Get("test.token"))
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("TEST_RENEW", "true")
	t.Setenv("TEST_PAGESIZE", "25")
	t.Setenv("TEST_BADSIZE", "lots")
	t.Setenv("TEST_TIMEOUT", "90s")
	t.Setenv("TEST_SECONDS", "45")
	t.Setenv("TEST_BADTIMEOUT", "soon")
	t.Setenv("TEST_GUILDS", "123; 456;;789")

	assert.True(t, GetBool("test.renew"))
	assert.True(t, GetBoolOr("test.unset", true))
	assert.Equal(t, 25, GetInt("test.pagesize"))
	assert.Equal(t, 25, GetIntOr("test.pagesize", 20))
	assert.Equal(t, 20, GetIntOr("test.badsize", 20))
	assert.Equal(t, 20, GetIntOr("test.unset", 20))
	assert.Equal(t, 90*time.Second, GetDurationOr("test.timeout", time.Minute))
	assert.Equal(t, 45*time.Second, GetDurationOr("test.seconds", time.Minute))
	assert.Equal(t, time.Minute, GetDurationOr("test.badtimeout", time.Minute))
	assert.Equal(t, []string{"123", "456", "789"}, GetStringArray("test.guilds", ";"))
	assert.Empty(t, GetStringArray("test.unset", ";"))
}

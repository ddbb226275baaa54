package downtimepoll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigationId(t *testing.T) {
	id := &NavigationId{Action: "next", Session: "0b6f3c36-4ad5-4c55-9d0e-1c1f2f0d6a77"}
	encoded := id.ToString()
	assert.Equal(t, "downtimepoll;action:next;session:0b6f3c36-4ad5-4c55-9d0e-1c1f2f0d6a77", encoded)
	assert.LessOrEqual(t, len(encoded), 100, "discord caps custom IDs at 100 characters")

	decoded := &NavigationId{}
	assert.True(t, decoded.FromString(encoded))
	assert.Equal(t, id, decoded)

	tests := []string{
		"",
		"vote:yes",
		"action:delete-channel:1-message:2",
		"downtimepoll",
		"downtimepoll;action:next",
		"downtimepoll;session:abc",
		"downtimepoll;broken",
	}
	for _, v := range tests {
		t.Run(v, func(t *testing.T) {
			assert.False(t, (&NavigationId{}).FromString(v))
		})
	}
}

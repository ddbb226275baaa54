package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func guesses(pairs ...string) []Guess {
	result := make([]Guess, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		result = append(result, Guess{SubmitterID: pairs[i], Time: MustParse(pairs[i+1]), Seq: int64(i/2 + 1)})
	}
	return result
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		guesses   []Guess
		winner    string
		distance  int
	}{
		{"exact match", "18:23", guesses("a", "18:20", "b", "18:23", "c", "18:26"), "b", 0},
		{"first of equal distance wins", "18:23", guesses("a", "18:20", "b", "18:26"), "a", 180},
		{"order decides ties, not time", "18:23", guesses("b", "18:26", "a", "18:20"), "b", 180},
		{"single guess", "12:00", guesses("solo", "23:59"), "solo", 11*3600 + 59*60},
		{"no wrap past midnight", "00:05", guesses("late", "23:55", "early", "01:00"), "early", 55 * 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, ok := Resolve(MustParse(tt.reference), tt.guesses)
			assert.True(t, ok)
			assert.Equal(t, tt.winner, winner.SubmitterID)
			assert.Equal(t, tt.distance, winner.DistanceSeconds)
		})
	}

	t.Run("no guesses", func(t *testing.T) {
		_, ok := Resolve(MustParse("18:23"), nil)
		assert.False(t, ok)
	})
}

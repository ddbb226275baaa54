package poll

import (
	"sort"
	"time"
)

// Guess is one submitter's answer for the running round of a scope.
type Guess struct {
	SubmitterID string
	DisplayName string
	Time        TimeOfDay
	SubmittedAt time.Time
	// Seq is assigned by the store on insert and orders guesses by submission.
	Seq         int64
}

func SortBySubmission(guesses []Guess) {
	sort.SliceStable(guesses, func(i, j int) bool {
		return guesses[i].Seq < guesses[j].Seq
	})
}

// SortByTime orders guesses by time of day, earlier submissions first on ties.
func SortByTime(guesses []Guess) {
	sort.SliceStable(guesses, func(i, j int) bool {
		a, b := guesses[i], guesses[j]
		if a.Time != b.Time {
			return a.Time.Before(b.Time)
		}
		return a.Seq < b.Seq
	})
}

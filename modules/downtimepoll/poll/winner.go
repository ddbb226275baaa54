package poll

// Winner is the guess closest to the reference time.
type Winner struct {
	SubmitterID     string
	DisplayName     string
	Time            TimeOfDay
	DistanceSeconds int
}

// Resolve picks the guess nearest to reference. The distance is the absolute
// difference of wall clock seconds since midnight, with no wrap past midnight,
// so 23:55 is far from 00:05. The first guess with the smallest distance wins,
// later ones with the same distance never replace it.
func Resolve(reference TimeOfDay, guesses []Guess) (Winner, bool) {
	var winner Winner
	found := false

	for _, g := range guesses {
		diff := g.Time.Seconds() - reference.Seconds()
		if diff < 0 {
			diff = -diff
		}
		if !found || diff < winner.DistanceSeconds {
			winner = Winner{
				SubmitterID:     g.SubmitterID,
				DisplayName:     g.DisplayName,
				Time:            g.Time,
				DistanceSeconds: diff,
			}
			found = true
		}
	}

	return winner, found
}

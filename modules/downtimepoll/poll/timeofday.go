package poll

import (
	"fmt"
	"regexp"
)

var timePattern = regexp.MustCompile(`^[0-2][0-9]:[0-5][0-9]$`)

// TimeOfDay is a wall clock time with minute precision, without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Parse reads a 24 hour "HH:MM" string. The text is matched as given, padding
// included. Hours past 23 fit the pattern but are rejected.
func Parse(text string) (TimeOfDay, error) {
	if !timePattern.MatchString(text) {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}

	t := TimeOfDay{
		Hour:   int(text[0]-'0')*10 + int(text[1]-'0'),
		Minute: int(text[3]-'0')*10 + int(text[4]-'0'),
	}
	if t.Hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}
	return t, nil
}

// MustParse is Parse for constants and tests.
func MustParse(text string) TimeOfDay {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Seconds() < o.Seconds()
}

package poll

import "errors"

var (
	ErrInvalidFormat    = errors.New("time must be in HH:MM format")
	ErrPollNotOpen      = errors.New("no poll is open")
	ErrAlreadySubmitted = errors.New("guess already submitted")
	ErrUnauthorized     = errors.New("operator permission required")
	ErrStoreUnavailable = errors.New("poll storage unavailable")
	ErrUnknownOperation = errors.New("unknown poll operation")
	ErrScopeMismatch    = errors.New("store is bound to another scope")
)

// IsRejection reports whether err is an answer for the caller rather than a
// fault of the bot.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrPollNotOpen) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrUnauthorized)
}

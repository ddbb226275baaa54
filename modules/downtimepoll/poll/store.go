package poll

import (
	"context"
	"errors"
	"fmt"
)

// StateStore keeps the open flag of each scope. Unknown scopes are closed.
type StateStore interface {
	IsOpen(ctx context.Context, scope string) (bool, error)
	SetOpen(ctx context.Context, scope string, open bool) error
}

// GuessStore keeps at most one guess per submitter and scope.
type GuessStore interface {
	// Add stores g and returns it with Seq filled in, or ErrAlreadySubmitted
	// when the submitter already has a guess in scope.
	Add(ctx context.Context, scope string, g Guess) (Guess, error)
	Clear(ctx context.Context, scope string) error
	// List returns the guesses of scope in no particular order.
	List(ctx context.Context, scope string) ([]Guess, error)
}

type Store interface {
	StateStore
	GuessStore

	// Atomic runs fn with exclusive access to scope. The Store handed to fn
	// is only valid for that scope and inside fn. When fn fails none of its
	// writes are kept.
	Atomic(ctx context.Context, scope string, fn func(tx Store) error) error
}

// Unavailable marks a storage failure as retryable. Domain errors and errors
// already marked pass through unchanged.
func Unavailable(err error) error {
	if err == nil || IsRejection(err) || errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrScopeMismatch) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

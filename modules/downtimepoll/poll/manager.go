package poll

import (
	"context"
	"errors"
	"github.com/lordralex/downtimepoll/api/logger"
	"strings"
	"time"
)

// Caller is whoever issued a command. Operator is decided by the host.
type Caller struct {
	ID       string
	Name     string
	Operator bool
}

// Result is the outcome of closing a round.
type Result struct {
	Reference TimeOfDay
	Winner    Winner
	HasWinner bool
	Count     int
}

type Options struct {
	// Retries is how many more times a storage failure is attempted.
	Retries    int
	RetryDelay time.Duration
	Clock      func() time.Time
}

// Manager runs the poll of every scope: open, guess, close and list.
type Manager struct {
	store    Store
	sessions *Sessions
	opts     Options
}

func NewManager(store Store, sessions *Sessions, opts Options) *Manager {
	if sessions == nil {
		sessions = NewSessions(SessionOptions{})
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 250 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Manager{store: store, sessions: sessions, opts: opts}
}

func (m *Manager) Sessions() *Sessions {
	return m.sessions
}

// Open starts a new round, dropping the guesses of any previous one. Opening
// an open poll starts over.
func (m *Manager) Open(ctx context.Context, scope string, caller Caller) error {
	if !caller.Operator {
		return ErrUnauthorized
	}

	return m.retry(ctx, "open", func() error {
		return m.store.Atomic(ctx, scope, func(tx Store) error {
			if err := tx.Clear(ctx, scope); err != nil {
				return err
			}
			return tx.SetOpen(ctx, scope, true)
		})
	})
}

// Submit records the caller's guess for the open round.
func (m *Manager) Submit(ctx context.Context, scope string, caller Caller, raw string) (Guess, error) {
	var accepted Guess

	err := m.retry(ctx, "submit", func() error {
		return m.store.Atomic(ctx, scope, func(tx Store) error {
			open, err := tx.IsOpen(ctx, scope)
			if err != nil {
				return err
			}
			if !open {
				return ErrPollNotOpen
			}

			t, err := Parse(raw)
			if err != nil {
				return err
			}

			accepted, err = tx.Add(ctx, scope, Guess{
				SubmitterID: caller.ID,
				DisplayName: caller.Name,
				Time:        t,
				SubmittedAt: m.opts.Clock(),
			})
			return err
		})
	})

	return accepted, err
}

// Close ends the round at the given real time and picks the winner. The
// round's guesses are removed whether or not anyone won.
func (m *Manager) Close(ctx context.Context, scope string, caller Caller, raw string) (Result, error) {
	if !caller.Operator {
		return Result{}, ErrUnauthorized
	}

	var result Result
	err := m.retry(ctx, "close", func() error {
		return m.store.Atomic(ctx, scope, func(tx Store) error {
			open, err := tx.IsOpen(ctx, scope)
			if err != nil {
				return err
			}
			if !open {
				return ErrPollNotOpen
			}

			reference, err := Parse(raw)
			if err != nil {
				return err
			}

			if err = tx.SetOpen(ctx, scope, false); err != nil {
				return err
			}
			guesses, err := tx.List(ctx, scope)
			if err != nil {
				return err
			}
			if err = tx.Clear(ctx, scope); err != nil {
				return err
			}

			SortBySubmission(guesses)
			result = Result{Reference: reference, Count: len(guesses)}
			result.Winner, result.HasWinner = Resolve(reference, guesses)
			return nil
		})
	})

	return result, err
}

// List returns the guesses of scope by time of day. A paging session owned by
// the requester is started when there is anything to show.
func (m *Manager) List(ctx context.Context, scope string, requester Caller) ([]Guess, *Session, error) {
	var guesses []Guess
	err := m.retry(ctx, "list", func() (err error) {
		guesses, err = m.store.List(ctx, scope)
		return
	})
	if err != nil {
		return nil, nil, err
	}

	SortByTime(guesses)
	if len(guesses) == 0 {
		return guesses, nil, nil
	}
	return guesses, m.sessions.Start(scope, requester.ID, guesses), nil
}

type Operation string

const (
	OperationOpen   Operation = "pollstart"
	OperationClose  Operation = "pollclose"
	OperationSubmit Operation = "guess"
	OperationList   Operation = "guesses"
)

// Command is a classified request from the chat host.
type Command struct {
	Operation string
	Scope     string
	Caller    Caller
	Args      []string
}

type Reply struct {
	Operation Operation
	Guess     Guess
	Result    Result
	Entries   []Guess
	// Session is set for a non-empty list.
	Session   *Session
}

func (m *Manager) Dispatch(ctx context.Context, cmd Command) (Reply, error) {
	reply := Reply{Operation: Operation(strings.ToLower(cmd.Operation))}
	arg := ""
	if len(cmd.Args) > 0 {
		arg = cmd.Args[0]
	}

	var err error
	switch reply.Operation {
	case OperationOpen:
		err = m.Open(ctx, cmd.Scope, cmd.Caller)
	case OperationSubmit:
		reply.Guess, err = m.Submit(ctx, cmd.Scope, cmd.Caller, arg)
	case OperationClose:
		reply.Result, err = m.Close(ctx, cmd.Scope, cmd.Caller, arg)
	case OperationList:
		reply.Entries, reply.Session, err = m.List(ctx, cmd.Scope, cmd.Caller)
	default:
		err = ErrUnknownOperation
	}
	return reply, err
}

func (m *Manager) retry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, ErrStoreUnavailable) || attempt >= m.opts.Retries {
			return err
		}

		logger.Debug().Printf("retrying %s after storage failure: %s", op, err)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(m.opts.RetryDelay):
		}
	}
}

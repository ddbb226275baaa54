package poll

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStore keeps polls in process memory. Each scope has its own lock so
// scopes never wait on each other.
type MemoryStore struct {
	locker sync.Mutex
	scopes map[string]*memoryScope
	seq    atomic.Int64
}

type memoryScope struct {
	locker  sync.Mutex
	open    bool
	guesses map[string]Guess
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scopes: make(map[string]*memoryScope)}
}

func (s *MemoryStore) scope(name string) *memoryScope {
	s.locker.Lock()
	defer s.locker.Unlock()

	sc, exists := s.scopes[name]
	if !exists {
		sc = &memoryScope{guesses: make(map[string]Guess)}
		s.scopes[name] = sc
	}
	return sc
}

func (s *MemoryStore) IsOpen(ctx context.Context, scope string) (bool, error) {
	sc := s.scope(scope)
	sc.locker.Lock()
	defer sc.locker.Unlock()
	return sc.open, nil
}

func (s *MemoryStore) SetOpen(ctx context.Context, scope string, open bool) error {
	sc := s.scope(scope)
	sc.locker.Lock()
	defer sc.locker.Unlock()
	sc.open = open
	return nil
}

func (s *MemoryStore) Add(ctx context.Context, scope string, g Guess) (Guess, error) {
	sc := s.scope(scope)
	sc.locker.Lock()
	defer sc.locker.Unlock()
	return s.add(sc, g)
}

func (s *MemoryStore) Clear(ctx context.Context, scope string) error {
	sc := s.scope(scope)
	sc.locker.Lock()
	defer sc.locker.Unlock()
	sc.guesses = make(map[string]Guess)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, scope string) ([]Guess, error) {
	sc := s.scope(scope)
	sc.locker.Lock()
	defer sc.locker.Unlock()
	return sc.list(), nil
}

func (s *MemoryStore) Atomic(ctx context.Context, scope string, fn func(tx Store) error) error {
	sc := s.scope(scope)
	sc.locker.Lock()
	defer sc.locker.Unlock()

	open := sc.open
	guesses := make(map[string]Guess, len(sc.guesses))
	for k, v := range sc.guesses {
		guesses[k] = v
	}

	err := fn(&memoryTx{store: s, name: scope, data: sc})
	if err != nil {
		sc.open = open
		sc.guesses = guesses
	}
	return err
}

func (s *MemoryStore) add(sc *memoryScope, g Guess) (Guess, error) {
	if _, exists := sc.guesses[g.SubmitterID]; exists {
		return Guess{}, ErrAlreadySubmitted
	}
	g.Seq = s.seq.Add(1)
	sc.guesses[g.SubmitterID] = g
	return g, nil
}

func (sc *memoryScope) list() []Guess {
	result := make([]Guess, 0, len(sc.guesses))
	for _, v := range sc.guesses {
		result = append(result, v)
	}
	return result
}

// memoryTx works on a scope whose lock is already held by Atomic.
type memoryTx struct {
	store *MemoryStore
	name  string
	data  *memoryScope
}

func (t *memoryTx) check(scope string) error {
	if scope != t.name {
		return ErrScopeMismatch
	}
	return nil
}

func (t *memoryTx) IsOpen(ctx context.Context, scope string) (bool, error) {
	if err := t.check(scope); err != nil {
		return false, err
	}
	return t.data.open, nil
}

func (t *memoryTx) SetOpen(ctx context.Context, scope string, open bool) error {
	if err := t.check(scope); err != nil {
		return err
	}
	t.data.open = open
	return nil
}

func (t *memoryTx) Add(ctx context.Context, scope string, g Guess) (Guess, error) {
	if err := t.check(scope); err != nil {
		return Guess{}, err
	}
	return t.store.add(t.data, g)
}

func (t *memoryTx) Clear(ctx context.Context, scope string) error {
	if err := t.check(scope); err != nil {
		return err
	}
	t.data.guesses = make(map[string]Guess)
	return nil
}

func (t *memoryTx) List(ctx context.Context, scope string) ([]Guess, error) {
	if err := t.check(scope); err != nil {
		return nil, err
	}
	return t.data.list(), nil
}

func (t *memoryTx) Atomic(ctx context.Context, scope string, fn func(tx Store) error) error {
	if err := t.check(scope); err != nil {
		return err
	}
	return fn(t)
}

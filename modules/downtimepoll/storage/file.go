package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"github.com/lordralex/downtimepoll/api/logger"
	"github.com/lordralex/downtimepoll/modules/downtimepoll/poll"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

var safeName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore keeps one JSON document per scope in a directory. Documents are
// replaced through a temp file and rename, so a failed write leaves the
// previous round intact.
type FileStore struct {
	dir    string
	locker sync.Mutex
	scopes map[string]*fileScope
}

type fileScope struct {
	locker sync.Mutex
	loaded bool
	doc    document
}

type document struct {
	Open    bool                   `json:"open"`
	Seq     int64                  `json:"seq"`
	Guesses map[string]storedGuess `json:"guesses"`
}

type storedGuess struct {
	Name        string    `json:"name"`
	Time        string    `json:"time"`
	SubmittedAt time.Time `json:"submittedAt"`
	Seq         int64     `json:"seq"`
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, scopes: make(map[string]*fileScope)}, nil
}

func (s *FileStore) IsOpen(ctx context.Context, scope string) (open bool, err error) {
	err = s.Atomic(ctx, scope, func(tx poll.Store) error {
		open, err = tx.IsOpen(ctx, scope)
		return err
	})
	return
}

func (s *FileStore) SetOpen(ctx context.Context, scope string, open bool) error {
	return s.Atomic(ctx, scope, func(tx poll.Store) error {
		return tx.SetOpen(ctx, scope, open)
	})
}

func (s *FileStore) Add(ctx context.Context, scope string, g poll.Guess) (added poll.Guess, err error) {
	err = s.Atomic(ctx, scope, func(tx poll.Store) error {
		added, err = tx.Add(ctx, scope, g)
		return err
	})
	return
}

func (s *FileStore) Clear(ctx context.Context, scope string) error {
	return s.Atomic(ctx, scope, func(tx poll.Store) error {
		return tx.Clear(ctx, scope)
	})
}

func (s *FileStore) List(ctx context.Context, scope string) (guesses []poll.Guess, err error) {
	err = s.Atomic(ctx, scope, func(tx poll.Store) error {
		guesses, err = tx.List(ctx, scope)
		return err
	})
	return
}

// Atomic hands fn a copy of the scope's document and writes it back only
// when fn succeeds and something changed.
func (s *FileStore) Atomic(ctx context.Context, scope string, fn func(tx poll.Store) error) error {
	sc := s.scope(scope)
	sc.locker.Lock()
	defer sc.locker.Unlock()

	if !sc.loaded {
		doc, err := s.read(scope)
		if err != nil {
			return poll.Unavailable(err)
		}
		sc.doc = doc
		sc.loaded = true
	}

	tx := &fileTx{name: scope, doc: sc.doc.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}

	if err := s.write(scope, tx.doc); err != nil {
		return poll.Unavailable(err)
	}
	sc.doc = tx.doc
	return nil
}

func (s *FileStore) scope(name string) *fileScope {
	s.locker.Lock()
	defer s.locker.Unlock()

	sc, exists := s.scopes[name]
	if !exists {
		sc = &fileScope{}
		s.scopes[name] = sc
	}
	return sc
}

func (s *FileStore) path(scope string) string {
	name := scope
	if !safeName.MatchString(name) {
		name = "x" + hex.EncodeToString([]byte(scope))
	}
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) read(scope string) (document, error) {
	doc := document{Guesses: make(map[string]storedGuess)}

	data, err := os.ReadFile(s.path(scope))
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}

	if err = json.Unmarshal(data, &doc); err != nil {
		return doc, err
	}
	if doc.Guesses == nil {
		doc.Guesses = make(map[string]storedGuess)
	}
	return doc, nil
}

func (s *FileStore) write(scope string, doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".guesses-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(scope))
}

func (d document) clone() document {
	c := document{Open: d.Open, Seq: d.Seq, Guesses: make(map[string]storedGuess, len(d.Guesses))}
	for k, v := range d.Guesses {
		c.Guesses[k] = v
	}
	return c
}

type fileTx struct {
	name  string
	doc   document
	dirty bool
}

func (t *fileTx) check(scope string) error {
	if scope != t.name {
		return poll.ErrScopeMismatch
	}
	return nil
}

func (t *fileTx) IsOpen(ctx context.Context, scope string) (bool, error) {
	if err := t.check(scope); err != nil {
		return false, err
	}
	return t.doc.Open, nil
}

func (t *fileTx) SetOpen(ctx context.Context, scope string, open bool) error {
	if err := t.check(scope); err != nil {
		return err
	}
	t.doc.Open = open
	t.dirty = true
	return nil
}

func (t *fileTx) Add(ctx context.Context, scope string, g poll.Guess) (poll.Guess, error) {
	if err := t.check(scope); err != nil {
		return poll.Guess{}, err
	}
	if _, exists := t.doc.Guesses[g.SubmitterID]; exists {
		return poll.Guess{}, poll.ErrAlreadySubmitted
	}

	t.doc.Seq++
	g.Seq = t.doc.Seq
	t.doc.Guesses[g.SubmitterID] = storedGuess{
		Name:        g.DisplayName,
		Time:        g.Time.String(),
		SubmittedAt: g.SubmittedAt.UTC(),
		Seq:         g.Seq,
	}
	t.dirty = true
	return g, nil
}

func (t *fileTx) Clear(ctx context.Context, scope string) error {
	if err := t.check(scope); err != nil {
		return err
	}
	if len(t.doc.Guesses) > 0 {
		t.doc.Guesses = make(map[string]storedGuess)
		t.dirty = true
	}
	return nil
}

func (t *fileTx) List(ctx context.Context, scope string) ([]poll.Guess, error) {
	if err := t.check(scope); err != nil {
		return nil, err
	}

	result := make([]poll.Guess, 0, len(t.doc.Guesses))
	for id, v := range t.doc.Guesses {
		parsed, err := poll.Parse(v.Time)
		if err != nil {
			// the submitter still counts as having guessed
			logger.Err().Printf("skipping guess of %s in scope %s: %s", id, scope, err)
			continue
		}
		result = append(result, poll.Guess{
			SubmitterID: id,
			DisplayName: v.Name,
			Time:        parsed,
			SubmittedAt: v.SubmittedAt,
			Seq:         v.Seq,
		})
	}
	return result, nil
}

func (t *fileTx) Atomic(ctx context.Context, scope string, fn func(tx poll.Store) error) error {
	if err := t.check(scope); err != nil {
		return err
	}
	return fn(t)
}

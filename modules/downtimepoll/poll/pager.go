package poll

import (
	"github.com/google/uuid"
	"sync"
	"time"
)

const (
	DefaultPageSize       = 20
	DefaultSessionTimeout = 2 * time.Minute
)

// Page is one slice of an ordered guess list.
type Page struct {
	Items []Guess
	Index int
	Total int
}

func (p Page) HasPrev() bool {
	return p.Index > 0
}

func (p Page) HasNext() bool {
	return p.Index < p.Total-1
}

// Project cuts entries into pages of pageSize and returns the page at
// pageIndex, clamped into range. There is always at least one page.
func Project(entries []Guess, pageSize, pageIndex int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	total := (len(entries) + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageIndex > total-1 {
		pageIndex = total - 1
	}

	start := pageIndex * pageSize
	end := start + pageSize
	if start > len(entries) {
		start = len(entries)
	}
	if end > len(entries) {
		end = len(entries)
	}

	return Page{Items: entries[start:end], Index: pageIndex, Total: total}
}

type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "prev":
		return Prev, true
	case "next":
		return Next, true
	}
	return 0, false
}

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

type NavResult int

const (
	// Moved means the request was accepted, even if the page stayed the same
	// because it was already at a bound.
	Moved NavResult = iota
	// Ignored means the requester does not own the session.
	Ignored
	// Expired means the session no longer accepts navigation.
	Expired
)

// Session is one interactive view over a guess list. Only the owner can turn
// pages and the session stops accepting input once it expires.
type Session struct {
	ID    string
	Scope string
	Owner string

	locker    sync.Mutex
	entries   []Guess
	pageSize  int
	page      int
	createdAt time.Time
	expiresAt time.Time
	window    time.Duration
	renew     bool
	expired   bool
	timer     *time.Timer
}

func NewSession(scope, owner string, entries []Guess, pageSize int, window time.Duration, now time.Time) *Session {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if window <= 0 {
		window = DefaultSessionTimeout
	}
	return &Session{
		ID:        uuid.NewString(),
		Scope:     scope,
		Owner:     owner,
		entries:   entries,
		pageSize:  pageSize,
		createdAt: now,
		expiresAt: now.Add(window),
		window:    window,
	}
}

func (s *Session) Current() Page {
	s.locker.Lock()
	defer s.locker.Unlock()
	return Project(s.entries, s.pageSize, s.page)
}

// Navigate moves one page in dir, stopping at the first and last page.
func (s *Session) Navigate(requester string, dir Direction, now time.Time) (Page, NavResult) {
	s.locker.Lock()
	defer s.locker.Unlock()

	if s.expired || !now.Before(s.expiresAt) {
		s.expired = true
		return Project(s.entries, s.pageSize, s.page), Expired
	}
	if requester != s.Owner {
		return Project(s.entries, s.pageSize, s.page), Ignored
	}

	page := Project(s.entries, s.pageSize, s.page+int(dir))
	s.page = page.Index
	if s.renew {
		s.expiresAt = now.Add(s.window)
	}
	return page, Moved
}

// IsExpired reports whether the session is inert at now.
func (s *Session) IsExpired(now time.Time) bool {
	s.locker.Lock()
	defer s.locker.Unlock()
	if !s.expired && !now.Before(s.expiresAt) {
		s.expired = true
	}
	return s.expired
}

func (s *Session) ExpiresAt() time.Time {
	s.locker.Lock()
	defer s.locker.Unlock()
	return s.expiresAt
}

func (s *Session) markExpired() {
	s.locker.Lock()
	defer s.locker.Unlock()
	s.expired = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

type SessionOptions struct {
	PageSize int
	Timeout  time.Duration
	// Renew pushes the deadline back on every accepted navigation instead of
	// counting from creation.
	Renew    bool
	Clock    func() time.Time
	// OnExpire runs once per session after it went inert, so the display can
	// be made static.
	OnExpire func(s *Session)
}

// Sessions tracks the live guess list views.
type Sessions struct {
	locker   sync.Mutex
	sessions map[string]*Session
	opts     SessionOptions
}

func NewSessions(opts SessionOptions) *Sessions {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSessionTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Sessions{sessions: make(map[string]*Session), opts: opts}
}

// Start registers a session over entries, starting on the first page.
func (r *Sessions) Start(scope, owner string, entries []Guess) *Session {
	s := NewSession(scope, owner, entries, r.opts.PageSize, r.opts.Timeout, r.opts.Clock())
	s.renew = r.opts.Renew

	r.locker.Lock()
	r.sessions[s.ID] = s
	r.locker.Unlock()

	id := s.ID
	s.locker.Lock()
	s.timer = time.AfterFunc(r.opts.Timeout, func() {
		r.timeout(id)
	})
	s.locker.Unlock()
	return s
}

func (r *Sessions) Get(id string) *Session {
	r.locker.Lock()
	defer r.locker.Unlock()
	return r.sessions[id]
}

// Navigate forwards a page turn to the session. Unknown sessions report
// Expired, since they were either never started or already removed.
func (r *Sessions) Navigate(id, requester string, dir Direction) (*Session, Page, NavResult) {
	s := r.Get(id)
	if s == nil {
		return nil, Page{}, Expired
	}

	page, result := s.Navigate(requester, dir, r.opts.Clock())
	switch result {
	case Expired:
		r.expire(id)
	case Moved:
		if r.opts.Renew {
			s.locker.Lock()
			if s.timer != nil {
				s.timer.Reset(s.expiresAt.Sub(r.opts.Clock()))
			}
			s.locker.Unlock()
		}
	}
	return s, page, result
}

// End expires a session right away.
func (r *Sessions) End(id string) {
	r.expire(id)
}

// Stop expires every session, e.g. on shutdown.
func (r *Sessions) Stop() {
	r.locker.Lock()
	ids := make([]string, 0, len(r.sessions))
	for k := range r.sessions {
		ids = append(ids, k)
	}
	r.locker.Unlock()

	for _, id := range ids {
		r.expire(id)
	}
}

func (r *Sessions) timeout(id string) {
	s := r.Get(id)
	if s == nil {
		return
	}
	// a renewed session may have moved its deadline after the timer fired
	if !s.IsExpired(r.opts.Clock()) {
		s.locker.Lock()
		if s.timer != nil {
			s.timer.Reset(s.expiresAt.Sub(r.opts.Clock()))
		}
		s.locker.Unlock()
		return
	}
	r.expire(id)
}

func (r *Sessions) expire(id string) {
	r.locker.Lock()
	s, exists := r.sessions[id]
	delete(r.sessions, id)
	r.locker.Unlock()

	if !exists {
		return
	}
	s.markExpired()
	if r.opts.OnExpire != nil {
		r.opts.OnExpire(s)
	}
}

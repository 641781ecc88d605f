// Package session scopes the mutable pieces of one subject view: the
// progressive article loader, the search debounce, and the cancellation that
// fires when the view unmounts.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"chronicle/internal/article/loader"
	artmodels "chronicle/internal/article/models"
	"chronicle/internal/timeline/store"
)

// DefaultSearchDebounce coalesces rapid search keystrokes; filtering only
// ever sees the settled value.
const DefaultSearchDebounce = 300 * time.Millisecond

// Session is one subject view's server-side state. All mutation funnels
// through the loader state machine and the debounce timer; the timeline
// store itself stays immutable and shared.
type Session struct {
	ID        string
	SubjectID string

	loader   *loader.Loader
	ctx      context.Context
	cancel   context.CancelFunc
	debounce time.Duration
	onSettle func(sessionID, text string)

	mu         sync.Mutex
	timer      *time.Timer
	pending    string
	settled    string
	lastActive time.Time
	closed     bool
}

func newSession(subjectID string, l *loader.Loader, debounce time.Duration, onSettle func(string, string)) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:         uuid.NewString(),
		SubjectID:  subjectID,
		loader:     l,
		ctx:        ctx,
		cancel:     cancel,
		debounce:   debounce,
		onSettle:   onSettle,
		lastActive: time.Now(),
	}
}

// Loader exposes the session's article loader. The loader doubles as the
// filter engine's ArticleLookup.
func (s *Session) Loader() *loader.Loader {
	return s.loader
}

// LoadMore drives one batch under the session's context, so an unmounted
// session abandons the fetch instead of failing loudly.
func (s *Session) LoadMore() (loader.Snapshot, error) {
	s.touch()
	return s.loader.LoadMore(s.ctx)
}

// SetSearchText records a keystroke. The value reaches SettledSearch only
// after the debounce window passes without another keystroke.
func (s *Session) SetSearchText(text string) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = text
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.settle)
}

func (s *Session) settle() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.settled = s.pending
	text := s.settled
	onSettle := s.onSettle
	s.mu.Unlock()

	if onSettle != nil {
		onSettle(s.ID, text)
	}
}

// SettledSearch returns the last debounced search value.
func (s *Session) SettledSearch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled
}

// Close cancels the session: the debounce timer stops, in-flight batch
// completions become no-ops, and later calls do nothing.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.cancel()
	s.loader.Close()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Manager holds live sessions and sweeps idle ones.
type Manager struct {
	fetch    loader.Fetcher
	debounce time.Duration
	ttl      time.Duration
	batch    int
	onSettle func(sessionID, text string)

	mu       sync.RWMutex
	sessions map[string]*Session
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSearchDebounce overrides DefaultSearchDebounce.
func WithSearchDebounce(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithSessionTTL sets how long an idle session survives.
func WithSessionTTL(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

// WithBatchSize sets the loader batch size for new sessions.
func WithBatchSize(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.batch = n
		}
	}
}

// WithSettleHook observes every settled search value, e.g. for analytics.
func WithSettleHook(hook func(sessionID, text string)) ManagerOption {
	return func(m *Manager) { m.onSettle = hook }
}

// NewManager creates a session manager over the article fetch capability.
func NewManager(fetch loader.Fetcher, opts ...ManagerOption) *Manager {
	m := &Manager{
		fetch:    fetch,
		debounce: DefaultSearchDebounce,
		ttl:      30 * time.Minute,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a session for a subject view. initial seeds the loader with
// articles the page already has; the backlog is everything else the
// subject's store references.
func (m *Manager) Create(st *store.Store, initial []artmodels.Article) *Session {
	var loaderOpts []loader.Option
	if m.batch > 0 {
		loaderOpts = append(loaderOpts, loader.WithBatchSize(m.batch))
	}
	l := loader.New(m.fetch, loaderOpts...)
	l.Initialize(initial, st.ReferencedSourceIDs())

	sess := newSession(st.SubjectID(), l, m.debounce, m.onSettle)
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Delete closes and removes a session. Idempotent.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		sess.Close()
	}
}

// Run sweeps idle sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, sess := range expired {
		sess.Close()
	}
}

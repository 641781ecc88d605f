// Package loader resolves the source-document ids referenced by a subject's
// timeline into fetched article records, in bounded batches, with an
// at-most-one-fetch-per-id guarantee.
//
// The fetched set is the only mutable shared resource in the engine core and
// this state machine is its only write path.
package loader

import (
	"context"
	"sync"

	artmodels "chronicle/internal/article/models"
	dErrors "chronicle/pkg/domain-errors"
)

// DefaultBatchSize bounds one LoadMore fetch.
const DefaultBatchSize = 50

// State tags the loader's phase for one subject session.
type State string

const (
	// StateIdle means no fetch is in flight and backlog remains.
	StateIdle State = "idle"
	// StateLoading means exactly one batch fetch is in flight.
	StateLoading State = "loading"
	// StateComplete means every referenced id has been resolved or
	// confirmed missing upstream.
	StateComplete State = "complete"
	// StateFailed means the last batch fetch errored; the backlog is
	// retained so a retry neither loses nor duplicates work.
	StateFailed State = "failed"
)

// ErrLoadInProgress rejects overlapping LoadMore calls; one session never has
// two batches in flight.
var ErrLoadInProgress = dErrors.New(dErrors.CodeConflict, "article batch load already in progress")

// ErrNoBacklog rejects LoadMore once the session is complete.
var ErrNoBacklog = dErrors.New(dErrors.CodeConflict, "no articles left to load")

// Fetcher is the external content-fetch capability. It is tolerant of
// unknown ids: it returns the subset found and never errors solely because
// ids are missing.
type Fetcher interface {
	FetchByIDs(ctx context.Context, ids []string) ([]artmodels.Article, error)
}

// Snapshot is an observer's view of the loader.
type Snapshot struct {
	State       State  `json:"state"`
	LoadedCount int    `json:"loaded_count"`
	TotalCount  int    `json:"total_count"`
	HasMore     bool   `json:"has_more"`
	LastError   string `json:"last_error,omitempty"`
}

// Loader is the per-session progressive loader. Construct with New, seed
// with Initialize, then drive with LoadMore.
type Loader struct {
	fetch     Fetcher
	batchSize int

	mu      sync.Mutex
	fetched map[string]artmodels.Article
	backlog []string
	total   int
	state   State
	lastErr error
	closed  bool
}

// Option tunes a Loader.
type Option func(*Loader)

// WithBatchSize overrides DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// New creates an uninitialized loader over the given fetch capability.
func New(fetch Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetch:     fetch,
		batchSize: DefaultBatchSize,
		fetched:   make(map[string]artmodels.Article),
		state:     StateComplete,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Initialize seeds the fetched set with whatever the caller already has and
// computes the backlog (allReferencedIDs minus the seed). TotalCount is
// fixed here for the life of the session: the event set does not change
// after store construction, so progress denominators never move.
func (l *Loader) Initialize(initial []artmodels.Article, allReferencedIDs []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fetched = make(map[string]artmodels.Article, len(allReferencedIDs))
	for _, a := range initial {
		l.fetched[a.ID] = a
	}
	l.backlog = l.backlog[:0]
	for _, id := range allReferencedIDs {
		if _, have := l.fetched[id]; !have {
			l.backlog = append(l.backlog, id)
		}
	}
	l.total = len(allReferencedIDs)
	l.lastErr = nil
	if len(l.backlog) > 0 {
		l.state = StateIdle
	} else {
		l.state = StateComplete
	}
}

// LoadMore fetches the next batch off the backlog. It is valid from
// StateIdle and, as the retry path, from StateFailed. A call while a batch
// is in flight returns ErrLoadInProgress without touching state.
//
// On success the results merge into the fetched set idempotently (set
// union). On failure the backlog is retained and the loader enters
// StateFailed. A completion arriving after Close is discarded.
func (l *Loader) LoadMore(ctx context.Context) (Snapshot, error) {
	l.mu.Lock()
	switch l.state {
	case StateLoading:
		snap := l.snapshotLocked()
		l.mu.Unlock()
		return snap, ErrLoadInProgress
	case StateComplete:
		snap := l.snapshotLocked()
		l.mu.Unlock()
		return snap, ErrNoBacklog
	}
	n := l.batchSize
	if n > len(l.backlog) {
		n = len(l.backlog)
	}
	batch := make([]string, n)
	copy(batch, l.backlog[:n])
	l.state = StateLoading
	l.mu.Unlock()

	articles, err := l.fetch.FetchByIDs(ctx, batch)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		// Stale completion after unmount: drop it.
		return l.snapshotLocked(), nil
	}
	if err != nil {
		l.state = StateFailed
		l.lastErr = err
		return l.snapshotLocked(), dErrors.Wrap(err, dErrors.CodeUnavailable, "article batch fetch failed")
	}

	for _, a := range articles {
		if _, have := l.fetched[a.ID]; have {
			continue
		}
		l.fetched[a.ID] = a
	}
	// The whole batch leaves the backlog even when the upstream store had
	// no record for some ids; those stay "missing", which renders as a
	// pending-free empty source, not an error.
	l.backlog = l.backlog[n:]
	l.lastErr = nil
	if len(l.backlog) > 0 {
		l.state = StateIdle
	} else {
		l.state = StateComplete
	}
	return l.snapshotLocked(), nil
}

// Article returns a loaded article by id. ok is false while the id is still
// pending or unknown; callers cannot tell the two apart.
func (l *Loader) Article(id string) (artmodels.Article, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.fetched[id]
	return a, ok
}

// ArticlesFor returns the loaded articles among ids, newest first.
func (l *Loader) ArticlesFor(ids []string) []artmodels.Article {
	l.mu.Lock()
	var out []artmodels.Article
	for _, id := range ids {
		if a, ok := l.fetched[id]; ok {
			out = append(out, a)
		}
	}
	l.mu.Unlock()
	artmodels.SortByPublishDate(out)
	return out
}

// Progress reports (loadedCount, totalCount). totalCount is the fixed
// universe of referenced ids for the subject.
func (l *Loader) Progress() (loaded, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fetched), l.total
}

// Snapshot returns the observer view.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Loader) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:       l.state,
		LoadedCount: len(l.fetched),
		TotalCount:  l.total,
		HasMore:     len(l.backlog) > 0,
	}
	if l.lastErr != nil {
		snap.LastError = l.lastErr.Error()
	}
	return snap
}

// Close marks the session unmounted: any in-flight batch completion becomes
// a no-op.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

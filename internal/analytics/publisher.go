package analytics

import (
	"context"
	"log/slog"
	"time"
)

// Sink persists analytics events.
type Sink interface {
	Write(ctx context.Context, events []Event) error
}

// Publisher accepts events on a bounded inbox and drains them to a sink in
// the background. Emit drops on a full inbox rather than blocking the
// request path.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger used for drop and sink-failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithInboxSize overrides the default inbox capacity.
func WithInboxSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.inbox = make(chan Event, n)
		}
	}
}

// NewPublisher creates a publisher. Pair it with a Worker to drain.
func NewPublisher(opts ...Option) *Publisher {
	p := &Publisher{
		inbox:  make(chan Event, 1024),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit enqueues an event. Never blocks; a full inbox drops the event.
func (p *Publisher) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("analytics inbox full, dropping event", "type", event.Type)
	}
}

// Worker drains a publisher's inbox into a sink in small batches.
type Worker struct {
	publisher *Publisher
	sink      Sink
	logger    *slog.Logger
	flushMax  int
	flushWait time.Duration
}

// NewWorker creates a worker over the publisher's inbox.
func NewWorker(publisher *Publisher, sink Sink, logger *slog.Logger) *Worker {
	return &Worker{
		publisher: publisher,
		sink:      sink,
		logger:    logger,
		flushMax:  64,
		flushWait: time.Second,
	}
}

// Run drains until ctx is cancelled, flushing on batch size or timer. Sink
// failures are logged and the batch dropped; analytics never retries into a
// stalled broker.
func (w *Worker) Run(ctx context.Context) error {
	batch := make([]Event, 0, w.flushMax)
	ticker := time.NewTicker(w.flushWait)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.sink.Write(ctx, batch); err != nil {
			w.logger.Warn("analytics sink write failed", "error", err, "dropped", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return ctx.Err()
		case event := <-w.publisher.inbox:
			batch = append(batch, event)
			if len(batch) >= w.flushMax {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

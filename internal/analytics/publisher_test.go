package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherDrainsToSink(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub := NewPublisher(WithLogger(logger))
	sink := NewMemorySink()
	worker := NewWorker(pub, sink, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	pub.Emit(Event{Type: EventSubjectViewed, SubjectID: "subject-1"})
	pub.Emit(Event{Type: EventSearchSettled, SearchText: "grammy"})

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 2
	}, time.Second, 5*time.Millisecond)

	events := sink.Events()
	assert.Equal(t, EventSubjectViewed, events[0].Type)
	assert.False(t, events[0].Timestamp.IsZero(), "Emit stamps missing timestamps")

	cancel()
	<-done
}

func TestEmitNeverBlocks(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub := NewPublisher(WithLogger(logger), WithInboxSize(1))

	// No worker draining: the second emit must drop, not hang.
	finished := make(chan struct{})
	go func() {
		pub.Emit(Event{Type: EventFacetsApplied})
		pub.Emit(Event{Type: EventFacetsApplied})
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full inbox")
	}
}

func TestDeviceClass(t *testing.T) {
	cases := map[string]string{
		"":    "",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36": "desktop",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148":                   "mobile",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)":                                    "bot",
	}
	for ua, want := range cases {
		assert.Equal(t, want, DeviceClass(ua), "ua %q", ua)
	}
}

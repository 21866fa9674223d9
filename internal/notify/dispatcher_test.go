package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Event) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, Event) {
	<-s.gate
}

func TestDispatcherDisabledReturnsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("disabled config must yield a nil dispatcher")
	}
	// Nil receivers must be safe.
	d.Emit(Event{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reports drops")
	}
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(Event{From: "validating", To: "authenticated"})
	}
	d.Close()

	if got := sink.count.Load(); got != 5 {
		t.Fatalf("delivered %d events, want 5", got)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)

	// First event blocks in the sink, second fills the buffer, the rest drop.
	for i := 0; i < 6; i++ {
		d.Emit(Event{})
	}
	time.Sleep(20 * time.Millisecond)

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events with a full buffer")
	}
	close(sink.gate)
	d.Close()
}

func TestDispatcherEmitAfterClose(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Close()

	before := sink.count.Load()
	d.Emit(Event{})
	if sink.count.Load() != before {
		t.Fatal("emit after close must be a no-op")
	}
}

func TestDispatcherCloseIdempotent(t *testing.T) {
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, &countingSink{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Close()
		}()
	}
	wg.Wait()
}

func TestJSONWriterSinkLineFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	ts := time.Unix(1700000000, 0).UTC()
	sink.Emit(context.Background(), Event{
		Timestamp: ts,
		From:      "uninitialized",
		To:        "validating",
		Reason:    "check_auth",
	})
	sink.Emit(context.Background(), Event{From: "validating", To: "authenticated", Subject: "alice"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if first.To != "validating" || first.Reason != "check_auth" {
		t.Fatalf("unexpected first event: %+v", first)
	}
}

func TestChannelSinkBuffered(t *testing.T) {
	sink := NewChannelSink(2)
	sink.Emit(context.Background(), Event{To: "authenticated"})

	select {
	case ev := <-sink.Events():
		if ev.To != "authenticated" {
			t.Fatalf("event = %+v", ev)
		}
	default:
		t.Fatal("event not buffered")
	}
}

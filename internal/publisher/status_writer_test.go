// internal/publisher/status_writer_test.go
package publisher

import (
	"errors"
	"testing"
	"time"

	"github.com/klskmp/blitz-publisher/internal/poller"
	"github.com/klskmp/blitz-publisher/internal/status"
	"github.com/rs/zerolog"
)

var _ poller.StatusSink = NewStatusWriter("p", 0, &fakeBroker{}, zerolog.Nop())

func TestStatusWriter_FirstWriteAlwaysPublished(t *testing.T) {
	b := &fakeBroker{}
	w := NewStatusWriter("klskmp/metering/blitz", 1, b, zerolog.Nop())

	// Unknown equals the initial last value; still published once.
	if err := w.WriteStatus(status.Snapshot{Health: status.HealthUnknown}); err != nil {
		t.Fatalf("WriteStatus err=%v", err)
	}
	if len(b.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(b.msgs))
	}
	m := b.msgs[0]
	if m.topic != "klskmp/metering/blitz/status" || !m.retained || m.qos != 1 || m.payload != "unknown" {
		t.Fatalf("unexpected message %+v", m)
	}
}

func TestStatusWriter_OnlyChangesPublished(t *testing.T) {
	b := &fakeBroker{}
	w := NewStatusWriter("p", 0, b, zerolog.Nop())

	seq := []status.Health{
		status.HealthOK,
		status.HealthOK,
		status.HealthDegraded,
		status.HealthDegraded,
		status.HealthError,
		status.HealthOK,
	}
	for _, h := range seq {
		if err := w.WriteStatus(status.Snapshot{Health: h}); err != nil {
			t.Fatalf("WriteStatus err=%v", err)
		}
	}

	want := []string{"online", "degraded", "error", "online"}
	if len(b.msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(b.msgs))
	}
	for i := range want {
		if b.msgs[i].payload != want[i] {
			t.Fatalf("msg[%d]=%q want %q", i, b.msgs[i].payload, want[i])
		}
	}
}

func TestStatusWriter_FailedTokenReasserts(t *testing.T) {
	b := &fakeBroker{err: errors.New("not connected")}
	w := NewStatusWriter("p", 0, b, zerolog.Nop())

	if err := w.WriteStatus(status.Snapshot{Health: status.HealthOK}); err == nil {
		t.Fatalf("expected error from failed token")
	}

	b.err = nil
	if err := w.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("WriteStatus err=%v", err)
	}
	if len(b.msgs) != 2 {
		t.Fatalf("expected re-assert after failure, got %d messages", len(b.msgs))
	}

	// now settled
	_ = w.WriteStatus(status.Snapshot{Health: status.HealthOK})
	if len(b.msgs) != 2 {
		t.Fatalf("unchanged health re-published")
	}
}

func TestStatusWriter_Offline(t *testing.T) {
	b := &fakeBroker{}
	w := NewStatusWriter("p", 0, b, zerolog.Nop())

	if err := w.Offline(time.Second); err != nil {
		t.Fatalf("Offline err=%v", err)
	}
	if len(b.msgs) != 1 || b.msgs[0].payload != "offline" || !b.msgs[0].retained {
		t.Fatalf("unexpected messages %+v", b.msgs)
	}

	b.pending = true
	if err := w.Offline(time.Millisecond); err == nil {
		t.Fatalf("expected timeout")
	}
}

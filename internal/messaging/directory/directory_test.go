package directory

import (
	"context"
	"sync"
	"testing"

	"github.com/hirehub/backend/internal/messaging/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	events []domain.Event
	full   bool
}

func (c *fakeConn) Send(event domain.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return false
	}
	c.events = append(c.events, event)
	return true
}

func (c *fakeConn) received() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Event(nil), c.events...)
}

func testEvent() domain.Event {
	return domain.Event{Type: domain.EventReceiveMessage, Payload: "hi"}
}

func TestDirectory_LastWriterWins(t *testing.T) {
	d := New()
	h1, h2 := &fakeConn{}, &fakeConn{}

	d.Register("u", h1)
	d.Register("u", h2)

	if !d.Dispatch(context.Background(), "u", testEvent()) {
		t.Fatal("expected dispatch to be accepted")
	}
	if len(h1.received()) != 0 {
		t.Errorf("superseded handle must not receive, got %d events", len(h1.received()))
	}
	if len(h2.received()) != 1 {
		t.Errorf("current handle should receive 1 event, got %d", len(h2.received()))
	}
}

func TestDirectory_UnregisterThenDispatch(t *testing.T) {
	d := New()
	h1 := &fakeConn{}

	d.Register("u", h1)
	if !d.Unregister(h1) {
		t.Fatal("expected current handle to be removed")
	}

	if d.Dispatch(context.Background(), "u", testEvent()) {
		t.Fatal("dispatch to an offline user must report false")
	}
	if len(h1.received()) != 0 {
		t.Errorf("unregistered handle must not receive")
	}
}

func TestDirectory_UnregisterStaleHandleIsNoop(t *testing.T) {
	d := New()
	h1, h2 := &fakeConn{}, &fakeConn{}

	d.Register("u", h1)
	d.Register("u", h2)

	if d.Unregister(h1) {
		t.Fatal("stale handle must not remove the current registration")
	}
	if !d.Dispatch(context.Background(), "u", testEvent()) {
		t.Fatal("current handle should still be registered")
	}
	if len(h2.received()) != 1 {
		t.Errorf("expected h2 to receive the event")
	}
}

func TestDirectory_UnregisterUnknown(t *testing.T) {
	d := New()
	if d.Unregister(&fakeConn{}) {
		t.Fatal("unknown handle must be a no-op")
	}
}

func TestDirectory_ReRegisterUnderAnotherUser(t *testing.T) {
	d := New()
	h := &fakeConn{}

	d.Register("a", h)
	d.Register("b", h)

	if _, ok := d.Lookup("a"); ok {
		t.Error("handle moved to b, a should be offline")
	}
	if conn, ok := d.Lookup("b"); !ok || conn != h {
		t.Error("expected b to hold the handle")
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 registration, got %d", d.Len())
	}
}

func TestDirectory_DispatchFullBufferDoesNotBlock(t *testing.T) {
	d := New()
	h := &fakeConn{full: true}
	d.Register("u", h)

	if d.Dispatch(context.Background(), "u", testEvent()) {
		t.Fatal("full handle should report the event as not accepted")
	}
}

func TestDirectory_ConcurrentAccess(t *testing.T) {
	d := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := &fakeConn{}
			d.Register("u", h)
			d.Dispatch(context.Background(), "u", testEvent())
			d.Unregister(h)
		}()
	}
	wg.Wait()

	if d.Len() != 0 {
		t.Errorf("expected empty directory, got %d", d.Len())
	}
}

package relay

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/messaging/directory"
	"github.com/hirehub/backend/internal/messaging/domain"
)

type fakeConn struct {
	events []domain.Event
}

func (c *fakeConn) Send(event domain.Event) bool {
	c.events = append(c.events, event)
	return true
}

func TestRelay_LocalUserSkipsRedis(t *testing.T) {
	dir := directory.New()
	conn := &fakeConn{}
	dir.Register("u", conn)

	// A nil client would panic if Dispatch tried to publish.
	r := New(nil, "test", dir, logger.NewDiscard())

	if !r.Dispatch(context.Background(), "u", domain.Event{Type: domain.EventReceiveMessage}) {
		t.Fatal("expected local delivery")
	}
	if len(conn.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(conn.events))
	}
}

func TestRelay_HandleDeliversForeignEvents(t *testing.T) {
	dir := directory.New()
	conn := &fakeConn{}
	dir.Register("u", conn)
	r := New(nil, "test", dir, logger.NewDiscard())

	data, _ := json.Marshal(envelope{
		Origin: "other-instance",
		UserID: "u",
		Type:   domain.EventReceiveMessage,
		Body:   json.RawMessage(`{"id":"m1"}`),
	})
	r.handle(context.Background(), data)

	if len(conn.events) != 1 {
		t.Fatalf("expected relayed event, got %d", len(conn.events))
	}
	raw, ok := conn.events[0].Payload.(json.RawMessage)
	if !ok || string(raw) != `{"id":"m1"}` {
		t.Errorf("unexpected payload: %#v", conn.events[0].Payload)
	}
}

func TestRelay_HandleIgnoresOwnAndInvalid(t *testing.T) {
	dir := directory.New()
	conn := &fakeConn{}
	dir.Register("u", conn)
	r := New(nil, "test", dir, logger.NewDiscard())

	own, _ := json.Marshal(envelope{Origin: r.instanceID, UserID: "u", Type: domain.EventReceiveMessage})
	r.handle(context.Background(), own)
	r.handle(context.Background(), []byte("not json"))
	r.handle(context.Background(), []byte(`{"origin":"x","type":"receive_message"}`))

	if len(conn.events) != 0 {
		t.Fatalf("expected no deliveries, got %d", len(conn.events))
	}
}

package events

import (
	"context"
	"errors"
	"testing"

	"github.com/hirehub/backend/internal/common/logger"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestBus_DeliversToSubscribersOfName(t *testing.T) {
	bus := NewBus(logger.NewDiscard())

	var got []string
	bus.Subscribe("a", func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.Name())
		return nil
	})
	bus.Subscribe("a", func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.Name())
		return nil
	})
	bus.Subscribe("b", func(_ context.Context, e Event) error {
		got = append(got, "other:"+e.Name())
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "a"})

	if len(got) != 2 || got[0] != "first:a" || got[1] != "second:a" {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestBus_HandlerFailuresAreContained(t *testing.T) {
	bus := NewBus(logger.NewDiscard())

	reached := false
	bus.Subscribe("a", func(context.Context, Event) error { return errors.New("boom") })
	bus.Subscribe("a", func(context.Context, Event) error { panic("kaboom") })
	bus.Subscribe("a", func(context.Context, Event) error {
		reached = true
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "a"})

	if !reached {
		t.Fatal("later handlers must still run after a failing one")
	}
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := NewBus(logger.NewDiscard())
	bus.Publish(context.Background(), testEvent{name: "nobody"})
}

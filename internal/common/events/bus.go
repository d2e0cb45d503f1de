package events

import (
	"context"
	"sync"

	"github.com/hirehub/backend/internal/common/logger"
)

type Event interface {
	Name() string
}

type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Bus delivers events synchronously to every handler subscribed under the
// event's name. Handler errors are logged and never reach the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Name()]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.invoke(ctx, event, handler)
	}
}

func (b *Bus) invoke(ctx context.Context, event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(ctx, logger.Fields{
				"event":  event.Name(),
				"action": "event_handler_panic",
			}).Errorf("event handler panicked: %v", r)
		}
	}()

	if err := handler(ctx, event); err != nil {
		b.log.WithFields(ctx, logger.Fields{
			"event":  event.Name(),
			"action": "event_handler_failed",
		}).Errorf("event handler failed: %v", err)
	}
}

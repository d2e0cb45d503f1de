package relay

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/messaging/directory"
	"github.com/hirehub/backend/internal/messaging/domain"
	"github.com/hirehub/backend/internal/observability/metrics"
)

type envelope struct {
	Origin string          `json:"origin"`
	UserID string          `json:"userId"`
	Type   string          `json:"type"`
	Body   json.RawMessage `json:"payload,omitempty"`
}

// Relay extends a local Directory across API instances. Events for users
// without a local handle are published on a Redis channel; every instance
// delivers what it receives to its own handles only and never republishes.
type Relay struct {
	client     *redis.Client
	channel    string
	local      *directory.Directory
	instanceID string
	log        *logger.Logger
}

func New(client *redis.Client, channel string, local *directory.Directory, log *logger.Logger) *Relay {
	return &Relay{
		client:     client,
		channel:    channel,
		local:      local,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

// Dispatch delivers locally when the user is connected to this instance and
// publishes otherwise. The result is true only for a local delivery.
func (r *Relay) Dispatch(ctx context.Context, userID string, event domain.Event) bool {
	if _, ok := r.local.Lookup(userID); ok {
		return r.local.Dispatch(ctx, userID, event)
	}

	body, err := json.Marshal(event.Payload)
	if err != nil {
		metrics.RelayPublishedTotal.WithLabelValues("marshal_error").Inc()
		r.log.Errorf("relay marshal failed user_id=%s event=%s: %v", userID, event.Type, err)
		return false
	}

	data, err := json.Marshal(envelope{
		Origin: r.instanceID,
		UserID: userID,
		Type:   event.Type,
		Body:   body,
	})
	if err != nil {
		metrics.RelayPublishedTotal.WithLabelValues("marshal_error").Inc()
		return false
	}

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		metrics.RelayPublishedTotal.WithLabelValues("error").Inc()
		r.log.Warnf("relay publish failed user_id=%s event=%s: %v", userID, event.Type, err)
		return false
	}

	metrics.RelayPublishedTotal.WithLabelValues("ok").Inc()
	metrics.DispatchTotal.WithLabelValues(event.Type, "relayed").Inc()
	return false
}

// Run consumes the shared channel until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	r.log.Infof("relay subscribed to %s instance=%s", r.channel, r.instanceID)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.handle(ctx, []byte(msg.Payload))
		}
	}
}

func (r *Relay) handle(ctx context.Context, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.UserID == "" || env.Type == "" {
		metrics.RelayReceivedTotal.WithLabelValues("invalid").Inc()
		return
	}
	if env.Origin == r.instanceID {
		metrics.RelayReceivedTotal.WithLabelValues("own").Inc()
		return
	}

	event := domain.Event{Type: env.Type}
	if len(env.Body) > 0 {
		event.Payload = env.Body
	}

	if r.local.Dispatch(ctx, env.UserID, event) {
		metrics.RelayReceivedTotal.WithLabelValues("delivered").Inc()
		return
	}
	metrics.RelayReceivedTotal.WithLabelValues("offline").Inc()
}

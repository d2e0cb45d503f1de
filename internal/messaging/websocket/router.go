package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	commonerrors "github.com/hirehub/backend/internal/common/errors"
	commonhttp "github.com/hirehub/backend/internal/common/http"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/messaging/directory"
	"github.com/hirehub/backend/internal/messaging/domain"
	"github.com/hirehub/backend/internal/messaging/service"
	"github.com/hirehub/backend/internal/observability/metrics"
)

// Router turns inbound frames into directory and messaging calls. Failures
// are reported to the originating client as error events and never close
// the connection.
type Router struct {
	directory *directory.Directory
	messaging *service.MessagingService
	timeout   time.Duration
	log       *logger.Logger
}

func NewRouter(dir *directory.Directory, messaging *service.MessagingService, timeout time.Duration, log *logger.Logger) *Router {
	return &Router{
		directory: dir,
		messaging: messaging,
		timeout:   timeout,
		log:       log,
	}
}

func (r *Router) Handle(ctx context.Context, c *Client, msg Inbound) {
	metrics.WebSocketEventsTotal.WithLabelValues(eventLabel(msg.Type)).Inc()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var err error
	switch msg.Type {
	case domain.EventJoin:
		err = r.join(ctx, c, msg.Payload)
	case domain.EventSendMessage:
		err = r.sendMessage(ctx, c, msg.Payload)
	default:
		err = commonerrors.ErrUnknownEventType
	}

	if err != nil {
		r.replyError(c, err)
	}
}

// Disconnect drops c from the directory unless a newer connection of the
// same user already replaced it.
func (r *Router) Disconnect(c *Client) {
	if r.directory.Unregister(c) {
		r.log.WithFields(c.ctx, logger.Fields{
			"user_id": c.userID,
			"action":  "ws_unregister",
		}).Info("websocket client unregistered")
	}
}

func (r *Router) join(ctx context.Context, c *Client, raw json.RawMessage) error {
	var p JoinPayload
	if err := decodePayload(raw, &p); err != nil {
		return err
	}

	userID := strings.TrimSpace(p.UserID)
	if userID == "" {
		return commonerrors.ErrUserIDRequired
	}
	if userID != c.userID {
		return commonerrors.ErrJoinIdentityMismatch
	}

	r.directory.Register(c.userID, c)
	c.markJoined()

	r.log.WithFields(ctx, logger.Fields{
		"user_id": c.userID,
		"online":  r.directory.Len(),
		"action":  "ws_join",
	}).Info("websocket client joined")
	return nil
}

func (r *Router) sendMessage(ctx context.Context, c *Client, raw json.RawMessage) error {
	if !c.isJoined() {
		return commonerrors.ErrNotJoined
	}

	var p SendMessagePayload
	if err := decodePayload(raw, &p); err != nil {
		return err
	}

	// The confirmation goes back on this connection even when a newer one
	// of the same user holds the directory slot.
	ack := service.AckTo(c)

	if p.Message != nil && p.Message.ID != "" {
		if err := commonhttp.ValidateUUID(p.Message.ID); err != nil {
			return commonerrors.ErrMessageNotFound.WithCause(err)
		}
		_, err := r.messaging.Relay(ctx, c.userID, p.Message.ID, ack)
		return err
	}

	if strings.TrimSpace(p.ReceiverID) == "" {
		return commonerrors.ErrReceiverIDRequired
	}
	if err := commonhttp.ValidateUUID(p.ReceiverID); err != nil {
		return commonerrors.ErrReceiverNotFound.WithCause(err)
	}

	_, err := r.messaging.Send(ctx, c.userID, p.ReceiverID, p.Content, ack)
	return err
}

func (r *Router) replyError(c *Client, err error) {
	code, message := commonerrors.ErrInternalError.Code(), commonerrors.ErrInternalError.Message()
	if de, ok := commonerrors.AsDomainError(err); ok {
		code, message = de.Code(), de.Message()
	} else {
		r.log.WithFields(c.ctx, logger.Fields{
			"user_id": c.userID,
			"action":  "ws_unhandled_error",
		}).Errorf("websocket event failed: %v", err)
	}

	metrics.WebSocketErrors.WithLabelValues(code).Inc()
	c.Send(domain.ErrorEvent(code, message))
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return commonerrors.ErrInvalidPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return commonerrors.ErrInvalidPayload.WithCause(err)
	}
	return nil
}

func errInvalidFrame(err error) error {
	return commonerrors.ErrInvalidPayload.WithCause(err)
}

func eventLabel(eventType string) string {
	switch eventType {
	case domain.EventJoin, domain.EventSendMessage:
		return eventType
	}
	return "unknown"
}

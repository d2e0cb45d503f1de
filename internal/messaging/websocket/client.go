package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/hirehub/backend/internal/common/constants"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/messaging/domain"
	"github.com/hirehub/backend/internal/observability/metrics"
)

type ClientConfig struct {
	WriteWait   time.Duration
	PongWait    time.Duration
	PingPeriod  time.Duration
	MaxMsgSize  int64
	SendBufSize int
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		WriteWait:   constants.DefaultWebSocketWriteWait,
		PongWait:    constants.DefaultWebSocketPongWait,
		PingPeriod:  constants.DefaultWebSocketPingPeriod,
		MaxMsgSize:  constants.DefaultWebSocketMaxMsgSize,
		SendBufSize: constants.DefaultWebSocketSendBufSize,
	}
}

// Client is one live connection. It is the handle registered in the
// delivery directory.
type Client struct {
	router *Router
	conn   *gorillaWS.Conn
	userID string
	send   chan []byte
	done   chan struct{}
	cfg    ClientConfig
	log    *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	joined   bool
	stopOnce sync.Once
}

func NewClient(ctx context.Context, router *Router, conn *gorillaWS.Conn, userID string, cfg ClientConfig, log *logger.Logger) *Client {
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		router: router,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, cfg.SendBufSize),
		done:   make(chan struct{}),
		cfg:    cfg,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) UserID() string { return c.userID }

func (c *Client) Start() {
	metrics.WebSocketConnectionsActive.Inc()
	go c.writePump()
	go c.readPump()
}

// Send queues event without blocking. A full buffer or a stopped client
// drops the event.
func (c *Client) Send(event domain.Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		c.log.Errorf("websocket marshal failed user_id=%s event=%s: %v", c.userID, event.Type, err)
		return false
	}

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		metrics.WebSocketDroppedEvents.WithLabelValues(event.Type).Inc()
		c.log.WithFields(c.ctx, logger.Fields{
			"user_id": c.userID,
			"event":   event.Type,
			"action":  "ws_event_dropped",
		}).Warn("websocket send buffer full, event dropped")
		return false
	}
}

func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.cancel()
	})
}

func (c *Client) markJoined() {
	c.mu.Lock()
	c.joined = true
	c.mu.Unlock()
}

func (c *Client) isJoined() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joined
}

func (c *Client) readPump() {
	reason := "client_closed"
	defer func() {
		c.router.Disconnect(c)
		c.Stop()
		c.conn.Close()
		metrics.WebSocketConnectionsActive.Dec()
		metrics.WebSocketDisconnections.WithLabelValues(reason).Inc()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if gorillaWS.IsUnexpectedCloseError(err, gorillaWS.CloseGoingAway, gorillaWS.CloseNormalClosure) {
				reason = "read_error"
				c.log.Warnf("websocket read error user_id=%s: %v", c.userID, err)
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.router.replyError(c, errInvalidFrame(err))
			continue
		}

		c.router.Handle(c.ctx, c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			_ = c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(gorillaWS.TextMessage, message); err != nil {
				c.Stop()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(gorillaWS.PingMessage, nil); err != nil {
				c.Stop()
				return
			}
		}
	}
}

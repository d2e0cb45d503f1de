package websocket

import (
	"context"
	"net/http"
	"net/url"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/hirehub/backend/internal/common/constants"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	commonhttp "github.com/hirehub/backend/internal/common/http"
	"github.com/hirehub/backend/internal/common/jwtverify"
	"github.com/hirehub/backend/internal/common/logger"
)

// Handler upgrades authenticated requests to live connections. It expects
// jwtverify.Middleware in front of it.
type Handler struct {
	router   *Router
	upgrader gorillaWS.Upgrader
	cfg      ClientConfig
	log      *logger.Logger
}

func NewHandler(router *Router, cfg ClientConfig, allowedOrigin string, log *logger.Logger) *Handler {
	return &Handler{
		router: router,
		cfg:    cfg,
		log:    log,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.WebSocketReadBufferSize,
			WriteBufferSize: constants.WebSocketWriteBufferSize,
			CheckOrigin:     checkOrigin(allowedOrigin),
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": claims.UserID,
			"action":  "ws_upgrade_failed",
		}).Warnf("websocket upgrade failed: %v", err)
		return
	}

	// The request context ends when ServeHTTP returns; the connection outlives it.
	ctx := context.WithoutCancel(r.Context())

	client := NewClient(ctx, h.router, conn, claims.UserID, h.cfg, h.log)
	client.Start()

	h.log.WithFields(r.Context(), logger.Fields{
		"user_id": claims.UserID,
		"action":  "ws_connect",
	}).Info("websocket client connected")
}

func checkOrigin(allowedOrigin string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if allowedOrigin != "" && origin == allowedOrigin {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	}
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	commonerrors "github.com/hirehub/backend/internal/common/errors"
	commonhttp "github.com/hirehub/backend/internal/common/http"
	"github.com/hirehub/backend/internal/common/jwtverify"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/messaging/domain"
	"github.com/hirehub/backend/internal/messaging/service"
)

type Handler struct {
	messaging *service.MessagingService
	log       *logger.Logger
	sendLimit func(http.Handler) http.Handler
}

type sendRequest struct {
	Content string `json:"content" validate:"required"`
}

type sendResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    domain.MessageView `json:"data"`
}

type historyResponse struct {
	Success  bool                 `json:"success"`
	Messages []domain.MessageView `json:"messages"`
}

type conversationsResponse struct {
	Success       bool                  `json:"success"`
	Conversations []domain.Conversation `json:"conversations"`
}

// NewHandler builds the message endpoints. sendLimit, when non-nil, wraps the
// send route only.
func NewHandler(messaging *service.MessagingService, log *logger.Logger, sendLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{messaging: messaging, log: log, sendLimit: sendLimit}
}

// Routes registers the message endpoints on r, relative to /api/v1.
func (h *Handler) Routes(r chi.Router) {
	sendMW := chi.Middlewares{}
	if h.sendLimit != nil {
		sendMW = append(sendMW, h.sendLimit)
	}

	r.With(sendMW...).Post("/message/send/{receiverId}", h.send)
	r.Get("/message/get/{userId}", h.history)
	r.Get("/message/conversations", h.conversations)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}

	receiverID := chi.URLParam(r, "receiverId")
	if receiverID == "" {
		commonhttp.HandleError(w, r, commonerrors.ErrReceiverIDRequired, h.log)
		return
	}
	if err := commonhttp.ValidateUUID(receiverID); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrReceiverNotFound.WithCause(err), h.log)
		return
	}

	var req sendRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrInvalidPayload.WithCause(err), h.log)
		return
	}
	if err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrEmptyMessageContent.WithCause(err), h.log)
		return
	}

	ctx := r.Context()
	view, err := h.messaging.Send(ctx, claims.UserID, receiverID, req.Content)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	h.log.WithFields(ctx, logger.Fields{
		"message_id":  view.ID,
		"receiver_id": receiverID,
		"action":      "message_send_success",
	}).Debug("message/send success")

	commonhttp.WriteJSON(w, http.StatusCreated, sendResponse{
		Success: true,
		Message: "Message sent successfully",
		Data:    view,
	})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}

	partnerID := chi.URLParam(r, "userId")
	if partnerID == "" {
		commonhttp.HandleError(w, r, commonerrors.ErrUserIDRequired, h.log)
		return
	}
	if err := commonhttp.ValidateUUID(partnerID); err != nil {
		commonhttp.HandleError(w, r, commonerrors.ErrUserNotFound.WithCause(err), h.log)
		return
	}

	messages, err := h.messaging.History(r.Context(), claims.UserID, partnerID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, historyResponse{
		Success:  true,
		Messages: messages,
	})
}

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}

	conversations, err := h.messaging.Conversations(r.Context(), claims.UserID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, conversationsResponse{
		Success:       true,
		Conversations: conversations,
	})
}

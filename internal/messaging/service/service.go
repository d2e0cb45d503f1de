package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	appdomain "github.com/hirehub/backend/internal/application/domain"
	"github.com/hirehub/backend/internal/common/clock"
	"github.com/hirehub/backend/internal/common/constants"
	"github.com/hirehub/backend/internal/common/crypto"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/common/events"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/common/resilience"
	"github.com/hirehub/backend/internal/messaging/domain"
	"github.com/hirehub/backend/internal/messaging/limiter"
	msgrepo "github.com/hirehub/backend/internal/messaging/repository"
	"github.com/hirehub/backend/internal/observability/metrics"
	userdomain "github.com/hirehub/backend/internal/user/domain"
)

type Gate interface {
	CanMessage(ctx context.Context, senderID, receiverID string) (bool, error)
	ListEligiblePartners(ctx context.Context, userID string) (map[string]struct{}, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, event domain.Event) bool
}

// Acknowledger is a single live connection that takes events directly.
type Acknowledger interface {
	Send(event domain.Event) bool
}

type deliveryOptions struct {
	ack Acknowledger
}

type DeliveryOption func(*deliveryOptions)

// AckTo sends the sender's message_sent confirmation to conn instead of the
// connection the directory holds for the sender.
func AckTo(conn Acknowledger) DeliveryOption {
	return func(o *deliveryOptions) {
		o.ack = conn
	}
}

func collectOptions(opts []DeliveryOption) deliveryOptions {
	var o deliveryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type ProfileFinder interface {
	FindSummaries(ctx context.Context, ids []string) ([]userdomain.Summary, error)
}

type MessagingService struct {
	messages   msgrepo.Repository
	profiles   ProfileFinder
	gate       Gate
	dispatcher Dispatcher
	limiter    limiter.Limiter
	breaker    *resilience.CircuitBreaker
	idGen      crypto.IDGenerator
	clock      clock.Clock
	log        *logger.Logger
}

type MessagingServiceDeps struct {
	Messages    msgrepo.Repository
	Profiles    ProfileFinder
	Gate        Gate
	Dispatcher  Dispatcher
	Limiter     limiter.Limiter
	Breaker     *resilience.CircuitBreaker
	IDGenerator crypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

func NewMessagingService(deps MessagingServiceDeps) *MessagingService {
	if deps.Limiter == nil {
		deps.Limiter = limiter.Noop{}
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = crypto.NewUUIDGenerator()
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if deps.Breaker == nil {
		deps.Breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:   constants.DefaultCircuitBreakerThreshold,
			Timeout:     constants.DefaultCircuitBreakerTimeout,
			ResetAfter:  constants.DefaultCircuitBreakerReset,
			Name:        "message_store",
			Logger:      deps.Log,
			IgnoreError: commonerrors.IsDomainError,
		})
	}
	return &MessagingService{
		messages:   deps.Messages,
		profiles:   deps.Profiles,
		gate:       deps.Gate,
		dispatcher: deps.Dispatcher,
		limiter:    deps.Limiter,
		breaker:    deps.Breaker,
		idGen:      deps.IDGenerator,
		clock:      deps.Clock,
		log:        deps.Log,
	}
}

// Subscribe wires the service to application events so that an accepted
// applicant receives the recruiter's greeting.
func (s *MessagingService) Subscribe(bus *events.Bus) {
	bus.Subscribe(appdomain.ApplicationAcceptedEvent, s.OnApplicationAccepted)
}

// Send validates, authorizes and persists a message, then pushes it to both
// participants' live connections. Push results never affect the outcome.
func (s *MessagingService) Send(ctx context.Context, senderID, receiverID, content string, opts ...DeliveryOption) (domain.MessageView, error) {
	if strings.TrimSpace(receiverID) == "" {
		return domain.MessageView{}, commonerrors.ErrReceiverIDRequired
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.MessageView{}, commonerrors.ErrEmptyMessageContent
	}
	if utf8.RuneCountInString(content) > constants.MaxMessageLength {
		return domain.MessageView{}, commonerrors.ErrMessageTooLong
	}

	if !s.limiter.Allow(ctx, limiter.PairKey(senderID, receiverID)) {
		return domain.MessageView{}, commonerrors.ErrRateLimited
	}

	return s.send(ctx, senderID, receiverID, content, "direct", collectOptions(opts))
}

func (s *MessagingService) send(ctx context.Context, senderID, receiverID, content, origin string, opts deliveryOptions) (domain.MessageView, error) {
	if err := s.authorize(ctx, senderID, receiverID); err != nil {
		return domain.MessageView{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return domain.MessageView{}, commonerrors.ErrMessageStoreFailed.WithCause(err)
	}

	msg := domain.Message{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  s.clock.Now(),
	}

	var saved domain.Message
	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.messages.Create(ctx, msg)
		return err
	})
	if err != nil {
		if errors.Is(err, commonerrors.ErrCircuitOpen) {
			return domain.MessageView{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"sender_id":   senderID,
			"receiver_id": receiverID,
			"action":      "message_store_failed",
		}).Errorf("store message failed: %v", err)
		return domain.MessageView{}, commonerrors.ErrMessageStoreFailed.WithCause(err)
	}

	metrics.MessagesSentTotal.WithLabelValues(origin).Inc()

	view := s.viewOf(ctx, saved)
	s.deliver(ctx, view, opts)

	s.log.WithFields(ctx, logger.Fields{
		"message_id":  saved.ID,
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"origin":      origin,
		"action":      "message_sent",
	}).Info("message sent")

	return view, nil
}

// Relay re-delivers a message the caller already persisted, for clients that
// send over HTTP first and then notify through the live channel.
func (s *MessagingService) Relay(ctx context.Context, senderID, messageID string, opts ...DeliveryOption) (domain.MessageView, error) {
	if strings.TrimSpace(messageID) == "" {
		return domain.MessageView{}, commonerrors.ErrMessageNotFound
	}

	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		if commonerrors.IsDomainError(err) {
			return domain.MessageView{}, err
		}
		return domain.MessageView{}, commonerrors.ErrMessageFetchFailed.WithCause(err)
	}
	if msg.SenderID != senderID {
		return domain.MessageView{}, commonerrors.ErrMessageNotOwned
	}

	if err := s.authorize(ctx, msg.SenderID, msg.ReceiverID); err != nil {
		return domain.MessageView{}, err
	}

	view := s.viewOf(ctx, msg)
	s.deliver(ctx, view, collectOptions(opts))
	return view, nil
}

// History returns every message between userID and partnerID, oldest first.
func (s *MessagingService) History(ctx context.Context, userID, partnerID string) ([]domain.MessageView, error) {
	if strings.TrimSpace(partnerID) == "" {
		return nil, commonerrors.ErrUserIDRequired
	}

	profiles, err := s.profileMap(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if _, ok := profiles[partnerID]; !ok {
		return nil, commonerrors.ErrUserNotFound
	}

	messages, err := s.messages.ListBetween(ctx, userID, partnerID)
	if err != nil {
		s.log.Errorf("list messages failed user_id=%s partner_id=%s: %v", userID, partnerID, err)
		return nil, commonerrors.ErrMessageFetchFailed.WithCause(err)
	}

	views := make([]domain.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, toView(msg, profiles))
	}
	return views, nil
}

// Conversations lists one entry per currently eligible partner that has
// exchanged at least one message with userID, most recent first.
func (s *MessagingService) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	partners, err := s.gate.ListEligiblePartners(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(partners) == 0 {
		return []domain.Conversation{}, nil
	}

	partnerIDs := make([]string, 0, len(partners))
	for id := range partners {
		partnerIDs = append(partnerIDs, id)
	}

	latest, err := s.messages.LatestPerPartner(ctx, userID, partnerIDs)
	if err != nil {
		s.log.Errorf("list conversations failed user_id=%s: %v", userID, err)
		return nil, commonerrors.ErrMessageFetchFailed.WithCause(err)
	}
	if len(latest) == 0 {
		return []domain.Conversation{}, nil
	}

	withMessages := make([]string, 0, len(latest))
	for _, msg := range latest {
		withMessages = append(withMessages, msg.PartnerOf(userID))
	}

	profiles, err := s.profileMap(ctx, withMessages...)
	if err != nil {
		return nil, err
	}

	conversations := make([]domain.Conversation, 0, len(latest))
	for _, msg := range latest {
		partnerID := msg.PartnerOf(userID)
		profile, ok := profiles[partnerID]
		if !ok {
			continue
		}
		conversations = append(conversations, domain.Conversation{
			User:                profile,
			LastMessage:         msg.Content,
			LastMessageTime:     msg.CreatedAt,
			IsLastMessageFromMe: msg.SenderID == userID,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTime.After(conversations[j].LastMessageTime)
	})

	return conversations, nil
}

// OnApplicationAccepted sends the canned greeting from the recruiter to the
// applicant.
func (s *MessagingService) OnApplicationAccepted(ctx context.Context, event events.Event) error {
	accepted, ok := event.(appdomain.ApplicationAccepted)
	if !ok {
		return nil
	}

	_, err := s.send(ctx, accepted.RecruiterID, accepted.ApplicantID, constants.AcceptedGreeting, "greeting", deliveryOptions{})
	return err
}

func (s *MessagingService) authorize(ctx context.Context, senderID, receiverID string) error {
	ok, err := s.gate.CanMessage(ctx, senderID, receiverID)
	if err != nil {
		return err
	}
	if !ok {
		s.log.WithFields(ctx, logger.Fields{
			"sender_id":   senderID,
			"receiver_id": receiverID,
			"action":      "message_forbidden",
		}).Debug("messaging not allowed")
		return commonerrors.ErrMessagingNotAllowed
	}
	return nil
}

func (s *MessagingService) deliver(ctx context.Context, view domain.MessageView, opts deliveryOptions) {
	sent := domain.Event{Type: domain.EventMessageSent, Payload: view}
	if opts.ack != nil {
		opts.ack.Send(sent)
	}
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, view.Receiver.ID, domain.Event{Type: domain.EventReceiveMessage, Payload: view})
	if opts.ack == nil {
		s.dispatcher.Dispatch(ctx, view.Sender.ID, sent)
	}
}

// viewOf decorates msg with profiles. A profile lookup failure degrades to
// id-only participants rather than failing an already stored message.
func (s *MessagingService) viewOf(ctx context.Context, msg domain.Message) domain.MessageView {
	profiles, err := s.profileMap(ctx, msg.SenderID, msg.ReceiverID)
	if err != nil {
		s.log.Warnf("profile lookup failed message_id=%s: %v", msg.ID, err)
		profiles = map[string]userdomain.Summary{}
	}
	return toView(msg, profiles)
}

func (s *MessagingService) profileMap(ctx context.Context, ids ...string) (map[string]userdomain.Summary, error) {
	summaries, err := s.profiles.FindSummaries(ctx, ids)
	if err != nil {
		if commonerrors.IsDomainError(err) {
			return nil, err
		}
		return nil, commonerrors.ErrMessageFetchFailed.WithCause(err)
	}

	profiles := make(map[string]userdomain.Summary, len(summaries))
	for _, summary := range summaries {
		profiles[summary.ID] = summary
	}
	return profiles, nil
}

func toView(msg domain.Message, profiles map[string]userdomain.Summary) domain.MessageView {
	sender, ok := profiles[msg.SenderID]
	if !ok {
		sender = userdomain.Summary{ID: msg.SenderID}
	}
	receiver, ok := profiles[msg.ReceiverID]
	if !ok {
		receiver = userdomain.Summary{ID: msg.ReceiverID}
	}
	return domain.MessageView{
		ID:        msg.ID,
		Sender:    sender,
		Receiver:  receiver,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hirehub/backend/internal/application/domain"
	"github.com/hirehub/backend/internal/common/clock"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/common/events"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/testutil"
	userdomain "github.com/hirehub/backend/internal/user/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func newTestService() (*ApplicationService, *testutil.Store, *recordingPublisher) {
	store := testutil.NewStore()
	store.AddUser("R", userdomain.RoleRecruiter)
	store.AddUser("R2", userdomain.RoleRecruiter)
	store.AddUser("A", userdomain.RoleStudent)
	store.AddJob("J", "R")

	pub := &recordingPublisher{}
	svc := NewApplicationService(ApplicationServiceDeps{
		Applications: store.Applications,
		Jobs:         store.Jobs,
		Users:        store.Users,
		Events:       pub,
		IDGenerator:  &testutil.SeqIDs{Prefix: "app"},
		Clock:        clock.NewMockClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		Log:          logger.NewDiscard(),
	})
	return svc, store, pub
}

func TestApply(t *testing.T) {
	svc, _, _ := newTestService()

	app, err := svc.Apply(context.Background(), "A", "J")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != domain.StatusPending {
		t.Errorf("expected pending, got %s", app.Status)
	}
	if app.RecruiterID != "R" || app.ApplicantID != "A" || app.JobID != "J" {
		t.Errorf("unexpected application: %+v", app)
	}
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name      string
		applicant string
		job       string
		want      error
	}{
		{"recruiter cannot apply", "R", "J", commonerrors.ErrOnlyStudentsApply},
		{"unknown job", "A", "missing", commonerrors.ErrJobNotFound},
		{"unknown applicant", "ghost", "J", commonerrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()
			_, err := svc.Apply(context.Background(), tt.applicant, tt.job)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestApply_Duplicate(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Apply(context.Background(), "A", "J"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	_, err := svc.Apply(context.Background(), "A", "J")
	if !errors.Is(err, commonerrors.ErrApplicationExists) {
		t.Errorf("expected APPLICATION_EXISTS, got %v", err)
	}
}

func TestUpdateStatus_AcceptPublishesOnce(t *testing.T) {
	svc, store, pub := newTestService()
	store.AddApplication("app-1", "J", "A", domain.StatusPending)
	ctx := context.Background()

	app, err := svc.UpdateStatus(ctx, "R", "app-1", " Accepted ")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if app.Status != domain.StatusAccepted {
		t.Errorf("expected accepted, got %s", app.Status)
	}

	got := pub.published()
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	accepted, ok := got[0].(domain.ApplicationAccepted)
	if !ok {
		t.Fatalf("unexpected event type %T", got[0])
	}
	if accepted.RecruiterID != "R" || accepted.ApplicantID != "A" || accepted.ApplicationID != "app-1" {
		t.Errorf("unexpected event: %+v", accepted)
	}

	if _, err := svc.UpdateStatus(ctx, "R", "app-1", "accepted"); err != nil {
		t.Fatalf("re-accept: %v", err)
	}
	if n := len(pub.published()); n != 1 {
		t.Errorf("re-accepting must not publish again, got %d events", n)
	}
}

func TestUpdateStatus_RejectDoesNotPublish(t *testing.T) {
	svc, store, pub := newTestService()
	store.AddApplication("app-1", "J", "A", domain.StatusAccepted)

	app, err := svc.UpdateStatus(context.Background(), "R", "app-1", "rejected")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if app.Status != domain.StatusRejected {
		t.Errorf("expected rejected, got %s", app.Status)
	}
	if n := len(pub.published()); n != 0 {
		t.Errorf("expected no events, got %d", n)
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name      string
		recruiter string
		id        string
		status    string
		want      error
	}{
		{"invalid status", "R", "app-1", "hired", commonerrors.ErrInvalidApplicationStatus},
		{"other recruiter", "R2", "app-1", "accepted", commonerrors.ErrApplicationForbidden},
		{"unknown application", "R", "missing", "accepted", commonerrors.ErrApplicationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, pub := newTestService()
			store.AddApplication("app-1", "J", "A", domain.StatusPending)

			_, err := svc.UpdateStatus(context.Background(), tt.recruiter, tt.id, tt.status)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if n := len(pub.published()); n != 0 {
				t.Errorf("expected no events, got %d", n)
			}
		})
	}
}

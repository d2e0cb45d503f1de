// Package testutil holds in-memory stand-ins for the Postgres repositories.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	appdomain "github.com/hirehub/backend/internal/application/domain"
	apprepo "github.com/hirehub/backend/internal/application/repository"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	jobdomain "github.com/hirehub/backend/internal/job/domain"
	jobrepo "github.com/hirehub/backend/internal/job/repository"
	msgdomain "github.com/hirehub/backend/internal/messaging/domain"
	msgrepo "github.com/hirehub/backend/internal/messaging/repository"
	userdomain "github.com/hirehub/backend/internal/user/domain"
	userrepo "github.com/hirehub/backend/internal/user/repository"
)

var (
	_ userrepo.Repository = (*Users)(nil)
	_ jobrepo.Repository  = (*Jobs)(nil)
	_ apprepo.Repository  = (*Applications)(nil)
	_ msgrepo.Repository  = (*Messages)(nil)
)

type Store struct {
	mu       sync.Mutex
	users    map[string]userdomain.User
	deleted  map[string]bool
	jobs     map[string]jobdomain.Job
	apps     map[string]appdomain.Application
	messages []msgdomain.Message

	Users        *Users
	Jobs         *Jobs
	Applications *Applications
	Messages     *Messages
}

func NewStore() *Store {
	s := &Store{
		users:   make(map[string]userdomain.User),
		deleted: make(map[string]bool),
		jobs:    make(map[string]jobdomain.Job),
		apps:    make(map[string]appdomain.Application),
	}
	s.Users = &Users{s: s}
	s.Jobs = &Jobs{s: s}
	s.Applications = &Applications{s: s}
	s.Messages = &Messages{s: s}
	return s
}

func (s *Store) AddUser(id string, role userdomain.Role) userdomain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := userdomain.User{
		ID:       id,
		FullName: "User " + id,
		Email:    id + "@example.com",
		Role:     role,
	}
	s.users[id] = u
	return u
}

// DeleteUser soft-deletes a user the way the users.deleted flag does.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted[id] = true
}

func (s *Store) AddJob(id, ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = jobdomain.Job{ID: id, Title: "Job " + id, CreatedBy: ownerID}
}

func (s *Store) AddApplication(id, jobID, applicantID string, status appdomain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[id] = appdomain.Application{
		ID:          id,
		JobID:       jobID,
		ApplicantID: applicantID,
		RecruiterID: s.jobs[jobID].CreatedBy,
		Status:      status,
	}
}

func (s *Store) SetStatus(id string, status appdomain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app := s.apps[id]
	app.Status = status
	s.apps[id] = app
}

func (s *Store) DeleteApplication(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.apps, id)
}

func (s *Store) AllMessages() []msgdomain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]msgdomain.Message(nil), s.messages...)
}

type Users struct {
	s *Store
	// FindErr, when set, is returned by every lookup.
	FindErr error
}

func (u *Users) FindByID(_ context.Context, id string) (userdomain.User, error) {
	if u.FindErr != nil {
		return userdomain.User{}, u.FindErr
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok || u.s.deleted[id] {
		return userdomain.User{}, commonerrors.ErrUserNotFound
	}
	return user, nil
}

func (u *Users) FindSummaries(_ context.Context, ids []string) ([]userdomain.Summary, error) {
	if u.FindErr != nil {
		return nil, u.FindErr
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	var out []userdomain.Summary
	seen := make(map[string]bool)
	for _, id := range ids {
		if user, ok := u.s.users[id]; ok && !u.s.deleted[id] && !seen[id] {
			seen[id] = true
			out = append(out, user.Summary())
		}
	}
	return out, nil
}

type Jobs struct {
	s *Store
}

func (j *Jobs) FindByID(_ context.Context, id string) (jobdomain.Job, error) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	job, ok := j.s.jobs[id]
	if !ok {
		return jobdomain.Job{}, commonerrors.ErrJobNotFound
	}
	return job, nil
}

func (j *Jobs) ListIDsByOwner(_ context.Context, recruiterID string) ([]string, error) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	ids := make([]string, 0)
	for _, job := range j.s.jobs {
		if job.CreatedBy == recruiterID {
			ids = append(ids, job.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type Applications struct {
	s *Store
}

func (a *Applications) Create(_ context.Context, app appdomain.Application) (appdomain.Application, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, existing := range a.s.apps {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return appdomain.Application{}, commonerrors.ErrApplicationExists
		}
	}
	app.UpdatedAt = app.CreatedAt
	a.s.apps[app.ID] = app
	return app, nil
}

func (a *Applications) FindByID(_ context.Context, id string) (appdomain.Application, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	app, ok := a.s.apps[id]
	if !ok {
		return appdomain.Application{}, commonerrors.ErrApplicationNotFound
	}
	return app, nil
}

func (a *Applications) UpdateStatus(_ context.Context, id string, status appdomain.Status) (appdomain.Status, appdomain.Application, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	app, ok := a.s.apps[id]
	if !ok {
		return "", appdomain.Application{}, commonerrors.ErrApplicationNotFound
	}
	previous := app.Status
	app.Status = status
	app.UpdatedAt = time.Now()
	a.s.apps[id] = app
	return previous, app, nil
}

func (a *Applications) FindAccepted(_ context.Context, jobIDs []string, applicantID string) (appdomain.Application, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	wanted := toSet(jobIDs)
	for _, app := range a.s.apps {
		if _, ok := wanted[app.JobID]; ok && app.ApplicantID == applicantID && app.Status == appdomain.StatusAccepted {
			return app, nil
		}
	}
	return appdomain.Application{}, commonerrors.ErrApplicationNotFound
}

func (a *Applications) ListAcceptedByApplicant(_ context.Context, applicantID string) ([]appdomain.Application, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	out := make([]appdomain.Application, 0)
	for _, app := range a.s.apps {
		if app.ApplicantID == applicantID && app.Status == appdomain.StatusAccepted {
			out = append(out, app)
		}
	}
	return out, nil
}

func (a *Applications) ListAcceptedApplicants(_ context.Context, jobIDs []string) ([]string, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	wanted := toSet(jobIDs)
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, app := range a.s.apps {
		if _, ok := wanted[app.JobID]; !ok || app.Status != appdomain.StatusAccepted {
			continue
		}
		if _, dup := seen[app.ApplicantID]; dup {
			continue
		}
		seen[app.ApplicantID] = struct{}{}
		out = append(out, app.ApplicantID)
	}
	return out, nil
}

type Messages struct {
	s *Store
	// CreateErr, when set, makes Create fail without storing.
	CreateErr error
}

func (m *Messages) Create(_ context.Context, msg msgdomain.Message) (msgdomain.Message, error) {
	if m.CreateErr != nil {
		return msgdomain.Message{}, m.CreateErr
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.messages = append(m.s.messages, msg)
	return msg, nil
}

func (m *Messages) FindByID(_ context.Context, id string) (msgdomain.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, msg := range m.s.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return msgdomain.Message{}, commonerrors.ErrMessageNotFound
}

func (m *Messages) ListBetween(_ context.Context, userA, userB string) ([]msgdomain.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]msgdomain.Message, 0)
	for _, msg := range m.s.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) || (msg.SenderID == userB && msg.ReceiverID == userA) {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Messages) LatestPerPartner(_ context.Context, userID string, partnerIDs []string) ([]msgdomain.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	wanted := toSet(partnerIDs)
	latest := make(map[string]msgdomain.Message)
	for _, msg := range m.s.messages {
		if msg.SenderID != userID && msg.ReceiverID != userID {
			continue
		}
		partner := msg.PartnerOf(userID)
		if _, ok := wanted[partner]; !ok {
			continue
		}
		if cur, ok := latest[partner]; !ok || !msg.CreatedAt.Before(cur.CreatedAt) {
			latest[partner] = msg
		}
	}
	out := make([]msgdomain.Message, 0, len(latest))
	for _, msg := range latest {
		out = append(out, msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

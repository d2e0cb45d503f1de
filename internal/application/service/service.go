package service

import (
	"context"

	"github.com/hirehub/backend/internal/application/domain"
	apprepo "github.com/hirehub/backend/internal/application/repository"
	"github.com/hirehub/backend/internal/common/clock"
	"github.com/hirehub/backend/internal/common/crypto"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/common/events"
	"github.com/hirehub/backend/internal/common/logger"
	jobrepo "github.com/hirehub/backend/internal/job/repository"
	userdomain "github.com/hirehub/backend/internal/user/domain"
	userrepo "github.com/hirehub/backend/internal/user/repository"
)

type ApplicationService struct {
	apps   apprepo.Repository
	jobs   jobrepo.Repository
	users  userrepo.Repository
	events events.Publisher
	idGen  crypto.IDGenerator
	clock  clock.Clock
	log    *logger.Logger
}

type ApplicationServiceDeps struct {
	Applications apprepo.Repository
	Jobs         jobrepo.Repository
	Users        userrepo.Repository
	Events       events.Publisher
	IDGenerator  crypto.IDGenerator
	Clock        clock.Clock
	Log          *logger.Logger
}

func NewApplicationService(deps ApplicationServiceDeps) *ApplicationService {
	if deps.IDGenerator == nil {
		deps.IDGenerator = crypto.NewUUIDGenerator()
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	return &ApplicationService{
		apps:   deps.Applications,
		jobs:   deps.Jobs,
		users:  deps.Users,
		events: deps.Events,
		idGen:  deps.IDGenerator,
		clock:  deps.Clock,
		log:    deps.Log,
	}
}

func (s *ApplicationService) Apply(ctx context.Context, applicantID, jobID string) (domain.Application, error) {
	applicant, err := s.users.FindByID(ctx, applicantID)
	if err != nil {
		return domain.Application{}, err
	}
	if applicant.Role != userdomain.RoleStudent {
		return domain.Application{}, commonerrors.ErrOnlyStudentsApply
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return domain.Application{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return domain.Application{}, commonerrors.ErrApplicationStoreFailed.WithCause(err)
	}

	app, err := s.apps.Create(ctx, domain.Application{
		ID:          id,
		JobID:       job.ID,
		ApplicantID: applicant.ID,
		RecruiterID: job.CreatedBy,
		Status:      domain.StatusPending,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		if commonerrors.IsDomainError(err) {
			return domain.Application{}, err
		}
		s.log.Errorf("apply failed applicant_id=%s job_id=%s: %v", applicantID, jobID, err)
		return domain.Application{}, commonerrors.ErrApplicationStoreFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"applicant_id":   app.ApplicantID,
		"action":         "application_created",
	}).Info("application submitted")

	return app, nil
}

// UpdateStatus lets the owner of the job move an application between states.
// Entering the accepted state publishes ApplicationAccepted once the change
// is committed.
func (s *ApplicationService) UpdateStatus(ctx context.Context, recruiterID, applicationID, rawStatus string) (domain.Application, error) {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return domain.Application{}, commonerrors.ErrInvalidApplicationStatus
	}

	current, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return domain.Application{}, err
	}
	if current.RecruiterID != recruiterID {
		return domain.Application{}, commonerrors.ErrApplicationForbidden
	}

	previous, updated, err := s.apps.UpdateStatus(ctx, applicationID, status)
	if err != nil {
		if commonerrors.IsDomainError(err) {
			return domain.Application{}, err
		}
		s.log.Errorf("update application status failed application_id=%s: %v", applicationID, err)
		return domain.Application{}, commonerrors.ErrApplicationStoreFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"application_id": updated.ID,
		"from":           string(previous),
		"to":             string(updated.Status),
		"action":         "application_status_updated",
	}).Info("application status updated")

	if previous != domain.StatusAccepted && updated.Status == domain.StatusAccepted && s.events != nil {
		s.events.Publish(ctx, domain.ApplicationAccepted{
			ApplicationID: updated.ID,
			JobID:         updated.JobID,
			RecruiterID:   updated.RecruiterID,
			ApplicantID:   updated.ApplicantID,
		})
	}

	return updated, nil
}

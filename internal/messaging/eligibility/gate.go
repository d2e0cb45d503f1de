package eligibility

import (
	"context"
	"errors"

	appdomain "github.com/hirehub/backend/internal/application/domain"
	"github.com/hirehub/backend/internal/common/db"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/observability/metrics"
	userdomain "github.com/hirehub/backend/internal/user/domain"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (userdomain.User, error)
}

type JobLister interface {
	ListIDsByOwner(ctx context.Context, recruiterID string) ([]string, error)
}

type AcceptedApplications interface {
	FindAccepted(ctx context.Context, jobIDs []string, applicantID string) (appdomain.Application, error)
	ListAcceptedByApplicant(ctx context.Context, applicantID string) ([]appdomain.Application, error)
	ListAcceptedApplicants(ctx context.Context, jobIDs []string) ([]string, error)
}

// Gate decides whether two users may exchange direct messages. A recruiter
// and an applicant may talk once one of the applicant's applications to a
// posting owned by the recruiter is accepted. Nothing is cached: every call
// reads current application state.
type Gate struct {
	users UserFinder
	jobs  JobLister
	apps  AcceptedApplications
	log   *logger.Logger
}

func NewGate(users UserFinder, jobs JobLister, apps AcceptedApplications, log *logger.Logger) *Gate {
	return &Gate{users: users, jobs: jobs, apps: apps, log: log}
}

// CanMessage is symmetric in its arguments. Unknown ids yield a NotFound
// error; a pair without an accepted application yields false.
func (g *Gate) CanMessage(ctx context.Context, senderID, receiverID string) (bool, error) {
	receiver, err := g.findUser(ctx, receiverID, commonerrors.ErrReceiverNotFound)
	if err != nil {
		metrics.EligibilityChecksTotal.WithLabelValues("error").Inc()
		return false, err
	}
	sender, err := g.findUser(ctx, senderID, commonerrors.ErrSenderNotFound)
	if err != nil {
		metrics.EligibilityChecksTotal.WithLabelValues("error").Inc()
		return false, err
	}

	var recruiter, applicant userdomain.User
	switch {
	case sender.Role == userdomain.RoleRecruiter && receiver.Role == userdomain.RoleStudent:
		recruiter, applicant = sender, receiver
	case sender.Role == userdomain.RoleStudent && receiver.Role == userdomain.RoleRecruiter:
		recruiter, applicant = receiver, sender
	default:
		metrics.EligibilityChecksTotal.WithLabelValues("denied").Inc()
		return false, nil
	}

	ok, err := g.hasAcceptedApplication(ctx, recruiter.ID, applicant.ID)
	if err != nil {
		metrics.EligibilityChecksTotal.WithLabelValues("error").Inc()
		return false, err
	}

	if ok {
		metrics.EligibilityChecksTotal.WithLabelValues("allowed").Inc()
	} else {
		metrics.EligibilityChecksTotal.WithLabelValues("denied").Inc()
	}
	return ok, nil
}

// ListEligiblePartners returns every user the given user may currently
// message. Administrators and unknown roles get an empty set.
func (g *Gate) ListEligiblePartners(ctx context.Context, userID string) (map[string]struct{}, error) {
	user, err := g.findUser(ctx, userID, commonerrors.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	partners := make(map[string]struct{})

	switch user.Role {
	case userdomain.RoleRecruiter:
		jobIDs, err := g.listJobIDs(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(jobIDs) == 0 {
			return partners, nil
		}

		var applicants []string
		err = db.Retry(ctx, g.log, "list accepted applicants", func(ctx context.Context) error {
			var err error
			applicants, err = g.apps.ListAcceptedApplicants(ctx, jobIDs)
			return err
		})
		if err != nil {
			return nil, g.internal(ctx, "list accepted applicants", err)
		}
		for _, id := range applicants {
			partners[id] = struct{}{}
		}

	case userdomain.RoleStudent:
		var apps []appdomain.Application
		err := db.Retry(ctx, g.log, "list accepted applications", func(ctx context.Context) error {
			var err error
			apps, err = g.apps.ListAcceptedByApplicant(ctx, user.ID)
			return err
		})
		if err != nil {
			return nil, g.internal(ctx, "list accepted applications", err)
		}
		for _, app := range apps {
			if app.RecruiterID != "" {
				partners[app.RecruiterID] = struct{}{}
			}
		}
	}

	return partners, nil
}

func (g *Gate) hasAcceptedApplication(ctx context.Context, recruiterID, applicantID string) (bool, error) {
	jobIDs, err := g.listJobIDs(ctx, recruiterID)
	if err != nil {
		return false, err
	}
	if len(jobIDs) == 0 {
		return false, nil
	}

	err = db.Retry(ctx, g.log, "find accepted application", func(ctx context.Context) error {
		_, err := g.apps.FindAccepted(ctx, jobIDs, applicantID)
		return err
	})
	if errors.Is(err, commonerrors.ErrApplicationNotFound) {
		return false, nil
	}
	if err != nil {
		return false, g.internal(ctx, "find accepted application", err)
	}
	return true, nil
}

func (g *Gate) listJobIDs(ctx context.Context, recruiterID string) ([]string, error) {
	var jobIDs []string
	err := db.Retry(ctx, g.log, "list jobs by owner", func(ctx context.Context) error {
		var err error
		jobIDs, err = g.jobs.ListIDsByOwner(ctx, recruiterID)
		return err
	})
	if err != nil {
		return nil, g.internal(ctx, "list jobs by owner", err)
	}
	return jobIDs, nil
}

func (g *Gate) findUser(ctx context.Context, id string, notFound commonerrors.DomainError) (userdomain.User, error) {
	var user userdomain.User
	err := db.Retry(ctx, g.log, "find user by id", func(ctx context.Context) error {
		var err error
		user, err = g.users.FindByID(ctx, id)
		return err
	})
	if errors.Is(err, commonerrors.ErrUserNotFound) {
		return userdomain.User{}, notFound
	}
	if err != nil {
		return userdomain.User{}, g.internal(ctx, "find user by id", err)
	}
	return user, nil
}

func (g *Gate) internal(ctx context.Context, operation string, err error) error {
	if commonerrors.IsDomainError(err) {
		return err
	}
	g.log.WithFields(ctx, logger.Fields{
		"operation": operation,
		"action":    "eligibility_lookup_failed",
	}).Errorf("eligibility lookup failed: %v", err)
	return commonerrors.ErrEligibilityCheckFailed.WithCause(err)
}

package domain

import (
	"strings"
	"time"
)

type Status string

const (
	// StatusPending is the state of a freshly submitted application.
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func ParseStatus(raw string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusAccepted, StatusRejected:
		return s, true
	}
	return "", false
}

type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	ApplicantID string    `json:"applicantId"`
	RecruiterID string    `json:"recruiterId"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const ApplicationAcceptedEvent = "application.accepted"

// ApplicationAccepted is published after an application moves into the
// accepted state.
type ApplicationAccepted struct {
	ApplicationID string
	JobID         string
	RecruiterID   string
	ApplicantID   string
}

func (ApplicationAccepted) Name() string { return ApplicationAcceptedEvent }

package domain

import "time"

type Job struct {
	ID        string
	Title     string
	CreatedBy string
	CreatedAt time.Time
}

package domain

import "time"

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID           string
	FullName     string
	Email        string
	Role         Role
	ProfilePhoto string
	CreatedAt    time.Time
}

// Summary is the public profile shown next to messages and conversations.
type Summary struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilePhoto"`
}

func (u User) Summary() Summary {
	return Summary{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
	}
}

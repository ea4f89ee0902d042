package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserProfile is the locally stored record identifying a user on one device.
type UserProfile struct {
	ID          string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Age         int       `json:"age"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserProfile builds a profile with a fresh identifier, trimmed name and non-negative age.
func NewUserProfile(displayName string, age int, now time.Time) *UserProfile {
	if age < 0 {
		age = 0
	}

	return &UserProfile{
		ID:          NewProfileID(),
		DisplayName: strings.TrimSpace(displayName),
		Age:         age,
		CreatedAt:   now.UTC(),
	}
}

// NewProfileID returns a random identifier in 32-character hex form.
func NewProfileID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether the record carries the fields every stored profile must have.
func (p *UserProfile) Valid() bool {
	if p == nil {
		return false
	}

	return p.ID != "" && strings.TrimSpace(p.DisplayName) != "" && p.Age >= 0
}

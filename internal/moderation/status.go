// Package moderation holds the submission lifecycle shared by colleges, hostels
// and reviews, and the rules deciding which of them a caller may see.
package moderation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status is the persisted moderation state. A rejected submission is deleted,
// so there is no rejected status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

var (
	ErrUnauthenticated   = errors.New("sign in required")
	ErrForbidden         = errors.New("admin access required")
	ErrInvalidTransition = errors.New("invalid moderation transition")
	ErrInvalidStatus     = errors.New("invalid status")
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved
}

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
)

// Caller is the identity a request acts as. The zero value is anonymous.
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

func Anonymous() Caller {
	return Caller{Role: RoleAnonymous}
}

func NewCaller(userID uuid.UUID, role Role) Caller {
	if userID == uuid.Nil {
		return Anonymous()
	}
	if role != RoleAdmin {
		role = RoleUser
	}
	return Caller{UserID: userID, Role: role}
}

func (c Caller) Authenticated() bool {
	return c.UserID != uuid.Nil && (c.Role == RoleUser || c.Role == RoleAdmin)
}

func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == RoleAdmin
}

// Moderated is implemented by every entity that goes through review.
type Moderated interface {
	ModerationStatus() Status
	// SubmittedBy reports the owning user, if the entity tracks one.
	SubmittedBy() (uuid.UUID, bool)
}

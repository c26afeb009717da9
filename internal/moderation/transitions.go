package moderation

import "fmt"

// InitialStatus returns the status a new submission is stored with. Only the
// admin "Add" flow (directAdd) skips the pending queue.
func InitialStatus(c Caller, directAdd bool) (Status, error) {
	if !c.Authenticated() {
		return "", ErrUnauthenticated
	}
	if directAdd {
		if !c.IsAdmin() {
			return "", ErrForbidden
		}
		return StatusApproved, nil
	}
	return StatusPending, nil
}

// Approve publishes a submission. Approving an approved entity is a no-op.
func Approve(c Caller, current Status) (Status, error) {
	if err := requireAdmin(c); err != nil {
		return current, err
	}
	if !current.Valid() {
		return current, fmt.Errorf("%w: %q", ErrInvalidStatus, current)
	}
	return StatusApproved, nil
}

// Reject authorizes the terminal rejection of a pending submission. The caller
// carries it out by deleting the row.
func Reject(c Caller, current Status) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	if current != StatusPending {
		return fmt.Errorf("%w: only pending submissions can be rejected", ErrInvalidTransition)
	}
	return nil
}

// Remove authorizes a hard delete, independent of the moderation state.
func Remove(c Caller) error {
	return requireAdmin(c)
}

// AuthorizeEdit guards admin edits of any field.
func AuthorizeEdit(c Caller) error {
	return requireAdmin(c)
}

// Transition validates an explicit status change requested through an edit.
func Transition(c Caller, from, to Status) (Status, error) {
	if err := requireAdmin(c); err != nil {
		return from, err
	}
	if !to.Valid() {
		return from, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from == StatusApproved && to == StatusPending {
		return from, fmt.Errorf("%w: approved submissions cannot return to pending", ErrInvalidTransition)
	}
	return to, nil
}

// RequireAdmin guards admin-only reads such as moderation queues.
func RequireAdmin(c Caller) error {
	return requireAdmin(c)
}

func requireAdmin(c Caller) error {
	if !c.Authenticated() {
		return ErrUnauthenticated
	}
	if !c.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

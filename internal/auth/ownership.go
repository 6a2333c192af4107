// ABOUTME: Uniform ownership guard for mutating owned resources
// ABOUTME: A caller may modify a resource only when they own it

package auth

import (
	"errors"
)

// ErrForbidden is returned when an authenticated caller attempts to mutate a
// resource owned by someone else.
var ErrForbidden = errors.New("forbidden")

// Owned is implemented by any resource with a single owning user.
type Owned interface {
	OwnerID() string
}

// RequireOwner returns ErrForbidden unless the identity owns the resource.
// Reads are not guarded; this applies to update and delete paths only.
func RequireOwner(id *Identity, resource Owned) error {
	if id == nil {
		return ErrUnauthorized
	}
	if resource.OwnerID() != id.UserID() {
		return ErrForbidden
	}
	return nil
}

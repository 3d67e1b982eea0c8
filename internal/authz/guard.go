// Package authz decides whether a user may act on a resource.
//
// The decision is a pure function over (role, action, ownership): no
// repository access, no side effects. Handlers and services consult the
// guard before every mutation; the transport layer never re-implements
// the rules.
package authz

import (
	"fmt"

	"gymlog/internal/models"
)

// Action is the kind of operation being attempted on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// DenyReason explains why a decision was negative.
type DenyReason string

const (
	DenyNotOwner         DenyReason = "not_owner"
	DenyInsufficientRole DenyReason = "insufficient_role"
)

// Resource is anything the guard can rule on. Ownerless (public)
// resources return owned == false.
type Resource interface {
	ResourceOwner() (ownerID string, owned bool)
}

// Decision is the outcome of a single authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason // Empty when Allowed.
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny builds a negative decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// DeniedError is returned by services when the guard rejects an action.
type DeniedError struct {
	Action Action
	Reason DenyReason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("action %s denied: %s", e.Action, e.Reason)
}

// Guard evaluates the role/ownership rule table.
type Guard struct{}

// NewGuard creates a new Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Decide returns Allow or Deny for the given actor, action and resource.
// Rules are evaluated in order, first match wins:
//
//  1. admin: everything is allowed.
//  2. read: allowed for every role on public resources and on resources
//     the actor owns; a viewer attempting any non-read action is denied.
//  3. create: allowed for editor (admin already matched above).
//  4. edit/delete on an owned resource: allowed when the actor is the owner.
//  5. edit/delete otherwise (foreign owner, or no owner at all, which
//     includes public resources): denied as not_owner.
//
// Anything that falls through is denied with insufficient_role. The
// function is total: it never panics for a legal input, including the
// malformed state where a public resource still carries an owner.
func (g *Guard) Decide(actor *models.User, action Action, resource Resource) Decision {
	if actor == nil {
		return Deny(DenyInsufficientRole)
	}

	// Rule 1: admins may do anything.
	if actor.Role == models.RoleAdmin {
		return Allow
	}

	ownerID, owned := ownerOf(resource)

	// Rule 2: reads are open to every role on public and own resources.
	if action == ActionRead {
		if !owned || ownerID == actor.ID {
			return Allow
		}
		// Reading someone else's private resource falls through to the
		// catch-all denial.
		return Deny(DenyInsufficientRole)
	}
	if actor.Role == models.RoleViewer {
		return Deny(DenyInsufficientRole)
	}

	// Rule 3: creation requires editor or admin.
	if action == ActionCreate {
		if actor.Role == models.RoleEditor {
			return Allow
		}
		return Deny(DenyInsufficientRole)
	}

	// Rules 4 and 5: mutation of an existing resource requires ownership.
	if action == ActionEdit || action == ActionDelete {
		if actor.Role != models.RoleEditor {
			return Deny(DenyInsufficientRole)
		}
		if owned && ownerID == actor.ID {
			return Allow
		}
		return Deny(DenyNotOwner)
	}

	return Deny(DenyInsufficientRole)
}

// ownerOf tolerates a nil resource so the guard stays total.
func ownerOf(resource Resource) (string, bool) {
	if resource == nil {
		return "", false
	}
	return resource.ResourceOwner()
}

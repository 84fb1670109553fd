// Package access answers "may actor X perform action Y on a resource
// owned by Z" from role and identifiers alone. Pure functions, no I/O:
// an unknown role or resource always denies, never errors.
package access

import (
	"github.com/google/uuid"

	"clarity/internal/domain"
)

type Resource string

const (
	ResourceTask       Resource = "task"
	ResourceOnboarding Resource = "onboarding_profile"
	ResourceHistory    Resource = "history"
	ResourceSkillProof Resource = "skill_proof"
)

type Action string

const (
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionComplete Action = "complete"
	ActionSkip     Action = "skip"
	ActionCreate   Action = "create"
)

// Decision carries the request being judged. CompanyLinked reports
// whether a skill-proof request linkage exists between the acting
// company and the resource owner; the lookup is the caller's concern.
type Decision struct {
	ActorID       uuid.UUID
	ActorRole     domain.Role
	ResourceOwner uuid.UUID
	Resource      Resource
	Action        Action
	CompanyLinked bool
}

// Allow applies the rules in precedence order.
func Allow(d Decision) bool {
	if !d.ActorRole.Valid() {
		return false
	}
	if d.ActorID == uuid.Nil {
		return false
	}

	// Task creation is system-privileged: no end-user role authors
	// tasks directly.
	if d.Resource == ResourceTask && d.Action == ActionCreate {
		return false
	}

	owner := d.ActorID == d.ResourceOwner

	// Owners act on their own data.
	if owner {
		switch d.Resource {
		case ResourceTask:
			switch d.Action {
			case ActionRead, ActionUpdate, ActionComplete, ActionSkip:
				return true
			}
		case ResourceHistory, ResourceOnboarding, ResourceSkillProof:
			return d.Action == ActionRead
		}
		return false
	}

	// Company may read (never modify) a linked candidate's history and
	// skill proofs. Hard rule: no cross-user write for any role.
	if d.ActorRole == domain.RoleCompany && d.Action == ActionRead && d.CompanyLinked {
		switch d.Resource {
		case ResourceHistory, ResourceSkillProof:
			return true
		}
	}

	return false
}

// OwnsTask is the common fast path for lifecycle transitions.
func OwnsTask(actorID, ownerID uuid.UUID) bool {
	return actorID != uuid.Nil && actorID == ownerID
}

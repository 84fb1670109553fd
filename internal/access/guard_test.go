package access

import (
	"testing"

	"github.com/google/uuid"

	"clarity/internal/domain"
)

func TestAllow(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name string
		d    Decision
		want bool
	}{
		{
			name: "unknown role denied",
			d:    Decision{ActorID: owner, ActorRole: "admin", ResourceOwner: owner, Resource: ResourceTask, Action: ActionRead},
			want: false,
		},
		{
			name: "nil actor denied",
			d:    Decision{ActorRole: domain.RoleStudent, ResourceOwner: owner, Resource: ResourceTask, Action: ActionRead},
			want: false,
		},
		{
			name: "owner reads own task",
			d:    Decision{ActorID: owner, ActorRole: domain.RoleStudent, ResourceOwner: owner, Resource: ResourceTask, Action: ActionRead},
			want: true,
		},
		{
			name: "owner completes own task",
			d:    Decision{ActorID: owner, ActorRole: domain.RoleProfessional, ResourceOwner: owner, Resource: ResourceTask, Action: ActionComplete},
			want: true,
		},
		{
			name: "owner skips own task",
			d:    Decision{ActorID: owner, ActorRole: domain.RoleStudent, ResourceOwner: owner, Resource: ResourceTask, Action: ActionSkip},
			want: true,
		},
		{
			name: "task create denied even for owner",
			d:    Decision{ActorID: owner, ActorRole: domain.RoleStudent, ResourceOwner: owner, Resource: ResourceTask, Action: ActionCreate},
			want: false,
		},
		{
			name: "task create denied for company",
			d:    Decision{ActorID: other, ActorRole: domain.RoleCompany, ResourceOwner: owner, Resource: ResourceTask, Action: ActionCreate, CompanyLinked: true},
			want: false,
		},
		{
			name: "student cannot touch another user's task",
			d:    Decision{ActorID: other, ActorRole: domain.RoleStudent, ResourceOwner: owner, Resource: ResourceTask, Action: ActionComplete},
			want: false,
		},
		{
			name: "professional cannot read another user's history",
			d:    Decision{ActorID: other, ActorRole: domain.RoleProfessional, ResourceOwner: owner, Resource: ResourceHistory, Action: ActionRead},
			want: false,
		},
		{
			name: "owner reads own history",
			d:    Decision{ActorID: owner, ActorRole: domain.RoleStudent, ResourceOwner: owner, Resource: ResourceHistory, Action: ActionRead},
			want: true,
		},
		{
			name: "owner cannot rewrite own history",
			d:    Decision{ActorID: owner, ActorRole: domain.RoleStudent, ResourceOwner: owner, Resource: ResourceHistory, Action: ActionUpdate},
			want: false,
		},
		{
			name: "linked company reads candidate history",
			d:    Decision{ActorID: other, ActorRole: domain.RoleCompany, ResourceOwner: owner, Resource: ResourceHistory, Action: ActionRead, CompanyLinked: true},
			want: true,
		},
		{
			name: "linked company reads candidate skill proofs",
			d:    Decision{ActorID: other, ActorRole: domain.RoleCompany, ResourceOwner: owner, Resource: ResourceSkillProof, Action: ActionRead, CompanyLinked: true},
			want: true,
		},
		{
			name: "unlinked company denied candidate history",
			d:    Decision{ActorID: other, ActorRole: domain.RoleCompany, ResourceOwner: owner, Resource: ResourceHistory, Action: ActionRead},
			want: false,
		},
		{
			name: "linked company still cannot write",
			d:    Decision{ActorID: other, ActorRole: domain.RoleCompany, ResourceOwner: owner, Resource: ResourceHistory, Action: ActionUpdate, CompanyLinked: true},
			want: false,
		},
		{
			name: "linked company cannot read candidate tasks",
			d:    Decision{ActorID: other, ActorRole: domain.RoleCompany, ResourceOwner: owner, Resource: ResourceTask, Action: ActionRead, CompanyLinked: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allow(tt.d); got != tt.want {
				t.Errorf("Allow(%+v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestOwnsTask(t *testing.T) {
	id := uuid.New()
	if !OwnsTask(id, id) {
		t.Error("owner must own their task")
	}
	if OwnsTask(id, uuid.New()) {
		t.Error("different ids must not match")
	}
	if OwnsTask(uuid.Nil, uuid.Nil) {
		t.Error("nil actor never owns anything")
	}
}

package domain

import "strings"

// View is a named slice of workspace data scoped to a role.
type View string

const (
	ViewOverview   View = "overview"
	ViewCareer     View = "career"
	ViewFocus      View = "focus"
	ViewSkill      View = "skill"
	ViewHistory    View = "history"
	ViewDirection  View = "direction"
	ViewSkillEdge  View = "skill-edge"
	ViewDashboard  View = "dashboard"
	ViewCandidates View = "candidates"
	ViewReports    View = "reports"
)

// allowedViews is the static per-role view table. A view missing from a
// role's list is rejected before any store read happens.
var allowedViews = map[Role][]View{
	RoleStudent:      {ViewOverview, ViewCareer, ViewFocus, ViewSkill, ViewHistory},
	RoleProfessional: {ViewOverview, ViewDirection, ViewFocus, ViewSkillEdge, ViewHistory},
	RoleCompany:      {ViewDashboard, ViewCandidates, ViewSkill, ViewReports, ViewHistory},
}

func AllowedViews(r Role) []View {
	views, ok := allowedViews[r]
	if !ok {
		return nil
	}
	out := make([]View, len(views))
	copy(out, views)
	return out
}

func ViewAllowed(r Role, v View) bool {
	for _, a := range allowedViews[r] {
		if a == v {
			return true
		}
	}
	return false
}

func NormalizeView(s string) View {
	return View(strings.ToLower(strings.TrimSpace(s)))
}

func (v View) String() string { return string(v) }

package domain

import (
	"fmt"
	"strings"
)

// EventKind enumerates every event the history log can carry.
// The log is append-only; kinds are validated at the boundary and
// trusted everywhere else.
type EventKind string

const (
	EventTaskCompleted       EventKind = "task_completed"
	EventTaskSkipped         EventKind = "task_skipped"
	EventSkillProofCompleted EventKind = "skill_proof_completed"
	EventEvaluationFlagged   EventKind = "evaluation_flagged"
	EventOnboardingCompleted EventKind = "onboarding_completed"
	EventLogin               EventKind = "login"
	EventPipooInsight        EventKind = "pipoo_insight"
	EventOther               EventKind = "other"
)

func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(strings.ToLower(strings.TrimSpace(s))) {
	case EventTaskCompleted:
		return EventTaskCompleted, nil
	case EventTaskSkipped:
		return EventTaskSkipped, nil
	case EventSkillProofCompleted:
		return EventSkillProofCompleted, nil
	case EventEvaluationFlagged:
		return EventEvaluationFlagged, nil
	case EventOnboardingCompleted:
		return EventOnboardingCompleted, nil
	case EventLogin:
		return EventLogin, nil
	case EventPipooInsight:
		return EventPipooInsight, nil
	case EventOther:
		return EventOther, nil
	default:
		return "", fmt.Errorf("unknown event kind: %q", s)
	}
}

func (k EventKind) String() string { return string(k) }

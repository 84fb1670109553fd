package domain

import "errors"

// Onboarding answers are a closed, versioned variant: exactly one
// role-specific payload is set, matching the profile's role.

const AnswersVersion = 1

type StudentAnswers struct {
	Goal       string   `json:"goal"`
	Timeline   string   `json:"timeline"`
	TimePerDay string   `json:"time_per_day"`
	SkillLevel string   `json:"skill_level"`
	Interests  []string `json:"interests,omitempty"`
	Stage      string   `json:"stage"`
	Blocker    string   `json:"blocker"`
	Skills     string   `json:"skills,omitempty"`
	TargetRole string   `json:"target_role,omitempty"`
}

type ProfessionalAnswers struct {
	Direction      string `json:"direction"`
	Objective      string `json:"objective"`
	Availability   string `json:"availability"`
	TimePerSession string `json:"time_per_session"`
	Experience     string `json:"experience"`
	Domain         string `json:"domain"`
	Blocker        string `json:"blocker"`
}

type CompanyAnswers struct {
	CompanyName     string   `json:"company_name"`
	HiringGoal      string   `json:"hiring_goal"`
	HiringFrequency string   `json:"hiring_frequency"`
	TeamSize        string   `json:"team_size"`
	SeniorityTarget string   `json:"seniority_target"`
	RoleTypes       []string `json:"role_types,omitempty"`
	HiringChallenge string   `json:"hiring_challenge"`
}

type OnboardingAnswers struct {
	Version      int                  `json:"version"`
	Student      *StudentAnswers      `json:"student,omitempty"`
	Professional *ProfessionalAnswers `json:"professional,omitempty"`
	Company      *CompanyAnswers      `json:"company,omitempty"`
}

var ErrAnswersInvalid = errors.New("onboarding answers do not match role")

// Validate checks that exactly one payload is set and belongs to role.
func (a OnboardingAnswers) Validate(role Role) error {
	set := 0
	if a.Student != nil {
		set++
	}
	if a.Professional != nil {
		set++
	}
	if a.Company != nil {
		set++
	}
	if set != 1 {
		return ErrAnswersInvalid
	}

	switch role {
	case RoleStudent:
		if a.Student == nil {
			return ErrAnswersInvalid
		}
	case RoleProfessional:
		if a.Professional == nil {
			return ErrAnswersInvalid
		}
	case RoleCompany:
		if a.Company == nil {
			return ErrAnswersInvalid
		}
	default:
		return ErrAnswersInvalid
	}
	return nil
}

func (a OnboardingAnswers) Role() (Role, bool) {
	switch {
	case a.Student != nil:
		return RoleStudent, true
	case a.Professional != nil:
		return RoleProfessional, true
	case a.Company != nil:
		return RoleCompany, true
	default:
		return "", false
	}
}

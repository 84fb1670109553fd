package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity/internal/domain"
	"clarity/internal/repository"
)

func studentAnswers() domain.OnboardingAnswers {
	return domain.OnboardingAnswers{
		Student: &domain.StudentAnswers{
			Goal:       "job-ready",
			Timeline:   "3-6m",
			TimePerDay: "1-2h",
		},
	}
}

func newOnboardingFixture(role domain.Role) (*Onboarding, *mockUserRepo, *mockProfileRepo, *mockHistoryRepo, uuid.UUID) {
	userID := uuid.New()
	users := newMockUserRepo(repository.User{ID: userID, Email: "u@example.com", Role: role})
	profiles := newMockProfileRepo()
	history := &mockHistoryRepo{}
	uc := NewOnboardingUsecase(users, profiles, history, nil)
	return uc, users, profiles, history, userID
}

func TestOnboarding_Submit_Success(t *testing.T) {
	uc, users, profiles, history, userID := newOnboardingFixture(domain.RoleStudent)

	err := uc.Submit(context.Background(), userID, domain.RoleStudent, studentAnswers())
	require.NoError(t, err)

	u := users.users[userID]
	assert.True(t, u.OnboardingCompleted)

	p, ok := profiles.profiles[userID]
	require.True(t, ok)
	assert.Equal(t, domain.AnswersVersion, p.Answers.Version)
	assert.Equal(t, domain.RoleStudent, p.Role)

	events := history.eventsOfKind(domain.EventOnboardingCompleted)
	require.Len(t, events, 1)
	assert.Equal(t, "student", events[0].Context["role"])
}

func TestOnboarding_Submit_RoleMismatch(t *testing.T) {
	uc, users, _, history, userID := newOnboardingFixture(domain.RoleProfessional)

	err := uc.Submit(context.Background(), userID, domain.RoleProfessional, studentAnswers())
	require.ErrorIs(t, err, ErrForbidden)

	assert.False(t, users.users[userID].OnboardingCompleted)
	assert.Empty(t, history.events)
}

func TestOnboarding_Submit_InvalidAnswers(t *testing.T) {
	uc, _, _, _, userID := newOnboardingFixture(domain.RoleStudent)

	err := uc.Submit(context.Background(), userID, domain.RoleStudent, domain.OnboardingAnswers{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestOnboarding_Submit_SecondTimeConflicts(t *testing.T) {
	uc, _, _, history, userID := newOnboardingFixture(domain.RoleStudent)

	require.NoError(t, uc.Submit(context.Background(), userID, domain.RoleStudent, studentAnswers()))

	err := uc.Submit(context.Background(), userID, domain.RoleStudent, studentAnswers())
	require.ErrorIs(t, err, ErrConflict)
	assert.Len(t, history.eventsOfKind(domain.EventOnboardingCompleted), 1, "no second event on conflict")
}

func TestOnboarding_Status(t *testing.T) {
	uc, _, profiles, _, userID := newOnboardingFixture(domain.RoleStudent)

	st, err := uc.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, st.Completed)
	assert.Nil(t, st.Answers)

	require.NoError(t, uc.Submit(context.Background(), userID, domain.RoleStudent, studentAnswers()))

	st, err = uc.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, st.Completed)
	require.NotNil(t, st.Answers)
	assert.Equal(t, "job-ready", st.Answers.Student.Goal)

	// Flag set but the profile row gone: report incomplete so the
	// client re-runs onboarding.
	delete(profiles.profiles, userID)
	st, err = uc.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, st.Completed)
}

func TestOnboarding_Reset(t *testing.T) {
	uc, users, profiles, _, userID := newOnboardingFixture(domain.RoleStudent)
	require.NoError(t, uc.Submit(context.Background(), userID, domain.RoleStudent, studentAnswers()))

	require.NoError(t, uc.Reset(context.Background(), userID))

	assert.False(t, users.users[userID].OnboardingCompleted)
	_, ok := profiles.profiles[userID]
	assert.False(t, ok)

	// Reset with no profile is a no-op, not an error.
	require.NoError(t, uc.Reset(context.Background(), userID))
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity/internal/domain"
	"clarity/internal/repository"
)

type workspaceFixture struct {
	userID   uuid.UUID
	users    *mockUserRepo
	profiles *mockProfileRepo
	tasks    *mockTaskRepo
	history  *mockHistoryRepo
	uc       *Workspace
}

func newStudentWorkspace(t *testing.T, onboarded bool, answers *domain.StudentAnswers) *workspaceFixture {
	t.Helper()
	return newWorkspaceFixture(t, domain.RoleStudent, onboarded, domain.OnboardingAnswers{Student: answers})
}

func newWorkspaceFixture(t *testing.T, role domain.Role, onboarded bool, answers domain.OnboardingAnswers) *workspaceFixture {
	t.Helper()

	userID := uuid.New()
	users := newMockUserRepo(repository.User{
		ID:                  userID,
		Email:               "u@example.com",
		Role:                role,
		OnboardingCompleted: onboarded,
	})

	profiles := newMockProfileRepo()
	if onboarded {
		profiles.profiles[userID] = repository.OnboardingProfile{
			ID:      uuid.New(),
			UserID:  userID,
			Role:    role,
			Answers: answers,
		}
	}

	tasks := newMockTaskRepo()
	history := &mockHistoryRepo{}
	uc := NewWorkspaceUsecase(users, profiles, tasks, history, nil, nil)

	return &workspaceFixture{
		userID:   userID,
		users:    users,
		profiles: profiles,
		tasks:    tasks,
		history:  history,
		uc:       uc,
	}
}

func TestWorkspace_Reconstruct_NotOnboarded(t *testing.T) {
	f := newStudentWorkspace(t, false, nil)

	_, err := f.uc.Reconstruct(context.Background(), f.userID, "overview")
	require.ErrorIs(t, err, ErrNotOnboarded)
}

func TestWorkspace_Reconstruct_InvalidViewForRole(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{Goal: "job-ready"})

	_, err := f.uc.Reconstruct(context.Background(), f.userID, "dashboard")
	require.ErrorIs(t, err, ErrInvalidView)
}

func TestWorkspace_CompanyDashboard_Stub(t *testing.T) {
	f := newWorkspaceFixture(t, domain.RoleCompany, true, domain.OnboardingAnswers{
		Company: &domain.CompanyAnswers{CompanyName: "Acme"},
	})

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewDashboard, ws.View)
	assert.Equal(t, []any{}, ws.Data["candidates"])
	assert.Empty(t, f.history.events, "company stub views must not emit events")
}

func TestWorkspace_Overview_MaterializesOneDailyTask(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{
		Goal:       "job-ready",
		Timeline:   "3-6m",
		Skills:     "Python, SQL",
		TimePerDay: "1-2h",
	})

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "overview")
	require.NoError(t, err)

	views, ok := ws.Data["tasks"].([]TaskView)
	require.True(t, ok)
	require.Len(t, views, 1)
	assert.Equal(t, "Practice Python fundamentals", views[0].Title)
	assert.Equal(t, "daily", views[0].Type)
	assert.Equal(t, "1-2h", views[0].EstimatedTime)

	stats, ok := ws.Data["stats"].(repository.TaskStats)
	require.True(t, ok)
	assert.Equal(t, 0, stats.Completed)

	insights := f.history.eventsOfKind(domain.EventPipooInsight)
	require.Len(t, insights, 1, "overview emits exactly one insight event")
	assert.Equal(t, "overview", insights[0].Context["view"])

	// Same calendar day: a second reconstruction returns the same
	// task, not a new one.
	ws2, err := f.uc.Reconstruct(context.Background(), f.userID, "overview")
	require.NoError(t, err)
	views2 := ws2.Data["tasks"].([]TaskView)
	require.Len(t, views2, 1)
	assert.Equal(t, views[0].ID, views2[0].ID)
	assert.Len(t, f.tasks.tasks, 1)
}

func TestWorkspace_Overview_DuplicateInsertRace(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{Goal: "job-ready"})

	winner := repository.Task{
		ID:           uuid.New(),
		UserID:       f.userID,
		Title:        "Work on job-ready goal",
		Type:         domain.TaskTypeDaily,
		AssignedDate: dateOnly(time.Now().UTC()),
	}
	raced := &duplicateOnCreateRepo{mockTaskRepo: f.tasks, winner: winner}
	f.uc.tasks = raced

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "overview")
	require.NoError(t, err)

	views := ws.Data["tasks"].([]TaskView)
	require.Len(t, views, 1)
	assert.Equal(t, winner.ID, views[0].ID, "loser must adopt the winner's task")
}

// duplicateOnCreateRepo simulates losing the daily-task insert race:
// the first Create fails with the unique-index conflict and the
// winner's row becomes visible for the re-read.
type duplicateOnCreateRepo struct {
	*mockTaskRepo
	winner repository.Task
}

func (r *duplicateOnCreateRepo) Create(_ context.Context, t repository.Task) error {
	if t.Type == domain.TaskTypeDaily {
		r.tasks[r.winner.ID] = r.winner
		return repository.ErrTaskDuplicateDaily
	}
	r.tasks[t.ID] = t
	return nil
}

func TestWorkspace_Overview_MomentumBranch(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{Goal: "job-ready", Timeline: "3-6m"})
	f.history.countSince = 6

	done := time.Now().UTC()
	id := uuid.New()
	f.tasks.tasks[id] = repository.Task{
		ID: id, UserID: f.userID, Title: "t", Type: domain.TaskTypeDaily,
		AssignedDate: dateOnly(done), Completed: true, CompletedAt: &done,
	}

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "overview")
	require.NoError(t, err)

	assert.Contains(t, ws.Advisory.Message, "Strong momentum")
	assert.Equal(t, 6, ws.Data["streak"])
}

func TestWorkspace_Overview_BlockerBranch(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{Goal: "job-ready", Blocker: "time"})
	f.history.countSince = 1

	today := dateOnly(time.Now().UTC())
	done := time.Now().UTC()
	addTask := func(completed, skipped bool) {
		id := uuid.New()
		f.tasks.tasks[id] = repository.Task{
			ID: id, UserID: f.userID, Title: "t", Type: domain.TaskTypeOptional,
			AssignedDate: today, Completed: completed, Skipped: skipped, CompletedAt: &done,
		}
	}
	addTask(true, false)
	addTask(false, true)
	addTask(false, true)
	// A pending task today so no materialization interferes.
	pendingID := uuid.New()
	f.tasks.tasks[pendingID] = repository.Task{
		ID: pendingID, UserID: f.userID, Title: "today", Type: domain.TaskTypeDaily, AssignedDate: today,
	}

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "overview")
	require.NoError(t, err)
	assert.Contains(t, ws.Advisory.Message, "Your blocker is time")
}

func TestWorkspace_Focus_WarningAndWindowBoundary(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{Goal: "job-ready", Blocker: "focus"})

	now := time.Now().UTC()
	addTask := func(daysAgo int, completed, skipped bool) uuid.UUID {
		id := uuid.New()
		f.tasks.tasks[id] = repository.Task{
			ID: id, UserID: f.userID, Title: "t", Type: domain.TaskTypeDaily,
			AssignedDate: dateOnly(now.AddDate(0, 0, -daysAgo)),
			Completed:    completed, Skipped: skipped,
		}
		return id
	}

	addTask(1, false, true)
	addTask(2, false, true)
	addTask(3, false, true)
	addTask(4, false, true)
	addTask(5, true, false)
	addTask(7, false, false) // exactly on the boundary: included
	addTask(8, false, true)  // outside the window: excluded

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "focus")
	require.NoError(t, err)

	assert.Equal(t, true, ws.Data["warning"], "4 skips in window must warn")
	assert.Equal(t, 4, ws.Data["skipped"], "the 8-day-old skip is out of window")
	assert.Equal(t, 1, ws.Data["completed"])
	assert.Equal(t, 1, ws.Data["pending"], "the 7-day-old task is in window")
	assert.Equal(t, "focus", string(ws.View))
	assert.Contains(t, ws.Advisory.Message, "reduce scope")
	assert.Equal(t, "focus", f.history.eventsOfKind(domain.EventPipooInsight)[0].Context["view"])
}

func TestWorkspace_Career_GapsAndNoEvent(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{
		Goal:       "job-ready",
		Timeline:   "0-3m",
		TargetRole: "Backend Developer",
		Skills:     "python, Git",
	})

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "career")
	require.NoError(t, err)

	assert.Equal(t, []string{"Database", "API Design"}, ws.Data["skill_gaps"], "matching is case-insensitive")
	assert.Contains(t, ws.Advisory.Message, "aggressive")
	assert.Empty(t, f.history.events, "career is a pure read, no event")
}

func TestWorkspace_ProfessionalOverviewAndDirection(t *testing.T) {
	f := newWorkspaceFixture(t, domain.RoleProfessional, true, domain.OnboardingAnswers{
		Professional: &domain.ProfessionalAnswers{
			Direction: "switch to backend",
			Objective: "senior role",
		},
	})

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "overview")
	require.NoError(t, err)
	assert.Contains(t, ws.Advisory.Message, "switch to backend")
	_, hasStreak := ws.Data["streak"]
	assert.False(t, hasStreak, "streak is a student overview field")
	require.Len(t, f.history.eventsOfKind(domain.EventPipooInsight), 1)

	dir, err := f.uc.Reconstruct(context.Background(), f.userID, "direction")
	require.NoError(t, err)
	assert.Equal(t, "switch to backend", dir.Data["direction"])
	assert.Equal(t, "senior role", dir.Data["objective"])

	// skill view is spelled skill-edge for professionals.
	_, err = f.uc.Reconstruct(context.Background(), f.userID, "skill")
	require.ErrorIs(t, err, ErrInvalidView)
	edge, err := f.uc.Reconstruct(context.Background(), f.userID, "skill-edge")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewSkillEdge, edge.View)
}

func TestWorkspace_HistoryView(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{Goal: "job-ready"})

	done := time.Now().UTC()
	id := uuid.New()
	f.tasks.tasks[id] = repository.Task{
		ID: id, UserID: f.userID, Title: "done", Type: domain.TaskTypeDaily,
		AssignedDate: dateOnly(done), Completed: true, CompletedAt: &done,
	}
	f.history.events = append(f.history.events, repository.HistoryEvent{
		ID: uuid.New(), UserID: f.userID, Kind: domain.EventTaskCompleted,
		Description: "Completed task: done", CreatedAt: done,
	})

	ws, err := f.uc.Reconstruct(context.Background(), f.userID, "history")
	require.NoError(t, err)

	events := ws.Data["events"].([]HistoryEventView)
	assert.Len(t, events, 1)
	completed := ws.Data["completed_tasks"].([]TaskView)
	assert.Len(t, completed, 1)
	assert.Contains(t, ws.Advisory.Message, "1 events and 1 completed tasks")
	// history is a read-only view: the read itself appended nothing.
	assert.Len(t, f.history.events, 1)
}

func TestWorkspace_Views_PerRole(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{Goal: "job-ready"})

	views, err := f.uc.Views(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, []domain.View{
		domain.ViewOverview, domain.ViewCareer, domain.ViewFocus, domain.ViewSkill, domain.ViewHistory,
	}, views)
}

func TestWorkspace_Info(t *testing.T) {
	f := newStudentWorkspace(t, true, &domain.StudentAnswers{Goal: "job-ready"})

	info, err := f.uc.Info(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, info.Role)
	assert.True(t, info.OnboardingCompleted)
	assert.Len(t, info.Views, 5)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clarity/internal/domain"
	"clarity/internal/infrastructure/cache"
	"clarity/internal/repository"
)

// WorkspaceView is one reconstructed slice of a user's workspace,
// derived entirely from persisted state. Data keys are view-specific.
type WorkspaceView struct {
	Role     domain.Role    `json:"role"`
	View     domain.View    `json:"view"`
	Advisory Advisory       `json:"advisory"`
	Data     map[string]any `json:"data"`
}

type Advisory struct {
	Message string `json:"message"`
}

type WorkspaceInfo struct {
	Role                domain.Role   `json:"role"`
	OnboardingCompleted bool          `json:"onboarding_completed"`
	Views               []domain.View `json:"views"`
}

// TaskView is the task shape embedded in workspace data payloads.
type TaskView struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"`
	Difficulty    string     `json:"difficulty,omitempty"`
	EstimatedTime string     `json:"estimated_time,omitempty"`
	Completed     bool       `json:"completed"`
	Skipped       bool       `json:"skipped"`
	AssignedDate  string     `json:"assigned_date"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func NewTaskView(t repository.Task) TaskView {
	return TaskView{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Type:          string(t.Type),
		Difficulty:    string(t.Difficulty),
		EstimatedTime: t.EstimatedTime,
		Completed:     t.Completed,
		Skipped:       t.Skipped,
		AssignedDate:  t.AssignedDate.Format("2006-01-02"),
		CompletedAt:   t.CompletedAt,
	}
}

type HistoryEventView struct {
	ID          uuid.UUID      `json:"id"`
	Kind        string         `json:"event_type"`
	Description string         `json:"description"`
	Context     map[string]any `json:"context,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewHistoryEventView(e repository.HistoryEvent) HistoryEventView {
	return HistoryEventView{
		ID:          e.ID,
		Kind:        string(e.Kind),
		Description: e.Description,
		Context:     e.Context,
		CreatedAt:   e.CreatedAt,
	}
}

type WorkspaceUsecase interface {
	Reconstruct(ctx context.Context, userID uuid.UUID, viewName string) (WorkspaceView, error)
	Views(ctx context.Context, userID uuid.UUID) ([]domain.View, error)
	Info(ctx context.Context, userID uuid.UUID) (WorkspaceInfo, error)
}

// Workspace reconstructs role-scoped views from stored tasks, history
// and the onboarding snapshot. It holds no session state: two calls
// with the same persisted state produce the same view.
type Workspace struct {
	users    repository.UserRepository
	profiles repository.OnboardingRepository
	tasks    repository.TaskRepository
	history  repository.HistoryRepository
	cache    *cache.Redis
	notifier ActivityNotifier
	now      func() time.Time
}

func NewWorkspaceUsecase(
	users repository.UserRepository,
	profiles repository.OnboardingRepository,
	tasks repository.TaskRepository,
	history repository.HistoryRepository,
	c *cache.Redis,
	notifier ActivityNotifier,
) *Workspace {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Workspace{
		users:    users,
		profiles: profiles,
		tasks:    tasks,
		history:  history,
		cache:    c,
		notifier: notifier,
		now:      time.Now,
	}
}

const infoCacheTTL = 30 * time.Second

func (w *Workspace) Reconstruct(ctx context.Context, userID uuid.UUID, viewName string) (WorkspaceView, error) {
	u, err := w.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return WorkspaceView{}, ErrNotFound
		}
		return WorkspaceView{}, ErrInternal
	}
	if !u.OnboardingCompleted {
		return WorkspaceView{}, ErrNotOnboarded
	}

	view := domain.NormalizeView(viewName)
	if !domain.ViewAllowed(u.Role, view) {
		return WorkspaceView{}, ErrInvalidView
	}

	profile, err := w.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return WorkspaceView{}, ErrNotOnboarded
		}
		return WorkspaceView{}, ErrInternal
	}
	facts := factsFrom(profile.Answers)

	if u.Role == domain.RoleCompany {
		return w.companyView(u.Role, view), nil
	}

	switch view {
	case domain.ViewOverview:
		return w.overview(ctx, userID, u.Role, facts)
	case domain.ViewCareer:
		return w.career(u.Role, facts), nil
	case domain.ViewDirection:
		return w.direction(u.Role, facts), nil
	case domain.ViewFocus:
		return w.focus(ctx, userID, u.Role, facts)
	case domain.ViewSkill, domain.ViewSkillEdge:
		return w.skillView(ctx, userID, u.Role, view)
	case domain.ViewHistory:
		return w.historyView(ctx, userID, u.Role)
	default:
		return WorkspaceView{}, ErrInvalidView
	}
}

func (w *Workspace) Views(ctx context.Context, userID uuid.UUID) ([]domain.View, error) {
	u, err := w.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	return domain.AllowedViews(u.Role), nil
}

func (w *Workspace) Info(ctx context.Context, userID uuid.UUID) (WorkspaceInfo, error) {
	key := "workspace:info:" + userID.String()

	var cached WorkspaceInfo
	if w.cache != nil && w.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	u, err := w.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return WorkspaceInfo{}, ErrNotFound
		}
		return WorkspaceInfo{}, ErrInternal
	}

	info := WorkspaceInfo{
		Role:                u.Role,
		OnboardingCompleted: u.OnboardingCompleted,
		Views:               domain.AllowedViews(u.Role),
	}
	if w.cache != nil {
		w.cache.SetJSON(ctx, key, info, infoCacheTTL)
	}
	return info, nil
}

// overview reads today's tasks, materializing one when none exist,
// then derives the advisory from overall stats and the completion
// pattern of the last seven days.
func (w *Workspace) overview(ctx context.Context, userID uuid.UUID, role domain.Role, facts profileFacts) (WorkspaceView, error) {
	today := dateOnly(w.now().UTC())

	todayTasks, err := w.ensureDailyTasks(ctx, userID, facts, today)
	if err != nil {
		return WorkspaceView{}, err
	}

	stats, err := w.tasks.Stats(ctx, userID)
	if err != nil {
		return WorkspaceView{}, ErrInternal
	}

	since := w.now().UTC().AddDate(0, 0, -7)
	recentCompletions, err := w.history.CountByUserAndKindSince(ctx, userID, domain.EventTaskCompleted, since)
	if err != nil {
		return WorkspaceView{}, ErrInternal
	}

	var message string
	data := map[string]any{
		"tasks": taskViews(todayTasks),
		"stats": stats,
	}
	if role == domain.RoleProfessional {
		message = fmt.Sprintf("You're working on: %s. Today's focus is clear. Execute.", facts.direction)
	} else {
		message = studentOverviewMessage(facts, stats, recentCompletions)
		data["streak"] = recentCompletions
	}

	if err := w.logInsight(ctx, userID, domain.ViewOverview, message, map[string]any{
		"stats":       stats,
		"tasks_today": len(todayTasks),
	}); err != nil {
		return WorkspaceView{}, ErrInternal
	}

	return WorkspaceView{Role: role, View: domain.ViewOverview, Advisory: Advisory{Message: message}, Data: data}, nil
}

// career is a pure derivation over the onboarding snapshot: no task
// or history reads, no event emitted.
func (w *Workspace) career(role domain.Role, facts profileFacts) WorkspaceView {
	message := fmt.Sprintf("You want to be %s in %s. ", facts.goal, facts.timeline)
	switch facts.timeline {
	case "0-3m":
		message += "This is aggressive. Focus on one skill deeply rather than many shallowly."
	case "3-6m":
		message += "This is tight but doable if you're consistent. No distractions."
	default:
		message += "You have time to build properly. Consistency matters more than speed."
	}

	declared := splitSkills(facts.skills)
	gaps := skillGaps(declared, facts.targetRole)

	return WorkspaceView{
		Role:     role,
		View:     domain.ViewCareer,
		Advisory: Advisory{Message: message},
		Data: map[string]any{
			"goal":           facts.goal,
			"timeline":       facts.timeline,
			"target_role":    facts.targetRole,
			"skill_gaps":     gaps,
			"current_skills": declared,
		},
	}
}

func (w *Workspace) direction(role domain.Role, facts profileFacts) WorkspaceView {
	return WorkspaceView{
		Role:     role,
		View:     domain.ViewDirection,
		Advisory: Advisory{Message: fmt.Sprintf("Your direction: %s. Your objective: %s.", facts.direction, facts.objective)},
		Data: map[string]any{
			"direction": facts.direction,
			"objective": facts.objective,
		},
	}
}

// focus partitions the last seven days of tasks (inclusive window) and
// derives the accountability message from the partition sizes.
func (w *Workspace) focus(ctx context.Context, userID uuid.UUID, role domain.Role, facts profileFacts) (WorkspaceView, error) {
	since := dateOnly(w.now().UTC().AddDate(0, 0, -7))
	recent, err := w.tasks.ListByUser(ctx, userID, repository.TaskFilter{AssignedSince: &since})
	if err != nil {
		return WorkspaceView{}, ErrInternal
	}

	var completed, skipped, pending int
	for _, t := range recent {
		switch {
		case t.Completed:
			completed++
		case t.Skipped:
			skipped++
		default:
			pending++
		}
	}

	var message string
	switch {
	case skipped > 3:
		message = fmt.Sprintf("You've skipped %d tasks this week. Let's reduce scope. Doing 1 thing well beats planning 5 and doing 0.", skipped)
	case completed >= 5:
		message = fmt.Sprintf("Strong week. %d tasks completed. Keep this momentum.", completed)
	case pending > 5:
		message = "You have many pending tasks. Let's be honest: pick 1 and finish it today."
	default:
		message = "You're on track. Focus on today's task, nothing else."
	}

	if err := w.logInsight(ctx, userID, domain.ViewFocus, message, map[string]any{
		"completed": completed,
		"skipped":   skipped,
		"pending":   pending,
	}); err != nil {
		return WorkspaceView{}, ErrInternal
	}

	return WorkspaceView{
		Role:     role,
		View:     domain.ViewFocus,
		Advisory: Advisory{Message: message},
		Data: map[string]any{
			"completed": completed,
			"skipped":   skipped,
			"pending":   pending,
			"blocker":   facts.blocker,
			"warning":   skipped > 3,
		},
	}, nil
}

func (w *Workspace) skillView(ctx context.Context, userID uuid.UUID, role domain.Role, view domain.View) (WorkspaceView, error) {
	skillType := domain.TaskTypeSkill
	tasks, err := w.tasks.ListByUser(ctx, userID, repository.TaskFilter{Type: &skillType})
	if err != nil {
		return WorkspaceView{}, ErrInternal
	}

	available := 0
	for _, t := range tasks {
		if !t.Completed {
			available++
		}
	}

	return WorkspaceView{
		Role:     role,
		View:     view,
		Advisory: Advisory{Message: "Skill proof tasks will appear here. Complete them to build credibility."},
		Data: map[string]any{
			"tasks":     taskViews(tasks),
			"available": available,
		},
	}, nil
}

func (w *Workspace) historyView(ctx context.Context, userID uuid.UUID, role domain.Role) (WorkspaceView, error) {
	events, err := w.history.ListByUser(ctx, userID, 50)
	if err != nil {
		return WorkspaceView{}, ErrInternal
	}
	completedTasks, err := w.tasks.ListByUser(ctx, userID, repository.TaskFilter{CompletedOnly: true})
	if err != nil {
		return WorkspaceView{}, ErrInternal
	}

	eventViews := make([]HistoryEventView, 0, len(events))
	for _, e := range events {
		eventViews = append(eventViews, NewHistoryEventView(e))
	}

	return WorkspaceView{
		Role:     role,
		View:     domain.ViewHistory,
		Advisory: Advisory{Message: fmt.Sprintf("You have %d events and %d completed tasks in your history.", len(events), len(completedTasks))},
		Data: map[string]any{
			"events":          eventViews,
			"completed_tasks": taskViews(completedTasks),
		},
	}, nil
}

// Company views are a stub until the evaluation feature lands.
func (w *Workspace) companyView(role domain.Role, view domain.View) WorkspaceView {
	return WorkspaceView{
		Role:     role,
		View:     view,
		Advisory: Advisory{Message: "Company workspace: candidate evaluation features are coming soon."},
		Data: map[string]any{
			"candidates":  []any{},
			"evaluations": []any{},
		},
	}
}

// ensureDailyTasks returns today's tasks, synthesizing exactly one
// daily task when none exist. Idempotence is layered: the existence
// check handles the sequential case, the partial unique index on
// (user_id, assigned_date) is the authority under races, and the
// advisory lock just narrows the window in which a race can happen.
func (w *Workspace) ensureDailyTasks(ctx context.Context, userID uuid.UUID, facts profileFacts, today time.Time) ([]repository.Task, error) {
	listToday := func() ([]repository.Task, error) {
		return w.tasks.ListByUser(ctx, userID, repository.TaskFilter{Date: &today})
	}

	tasks, err := listToday()
	if err != nil {
		return nil, ErrInternal
	}
	if len(tasks) > 0 {
		return tasks, nil
	}

	if w.cache != nil {
		lockKey := fmt.Sprintf("workspace:daily:%s:%s", userID, today.Format("2006-01-02"))
		if w.cache.AcquireLock(ctx, lockKey, 10*time.Second) {
			defer w.cache.ReleaseLock(ctx, lockKey)
		}
		// Re-check under the lock: the holder we waited out may have
		// created the task already.
		tasks, err = listToday()
		if err != nil {
			return nil, ErrInternal
		}
		if len(tasks) > 0 {
			return tasks, nil
		}
	}

	t := synthesizeDailyTask(userID, facts, today)
	if err := w.tasks.Create(ctx, t); err != nil {
		if !errors.Is(err, repository.ErrTaskDuplicateDaily) {
			return nil, ErrInternal
		}
		// Lost the race; the winner's task is the canonical one.
		tasks, err = listToday()
		if err != nil {
			return nil, ErrInternal
		}
		return tasks, nil
	}
	return []repository.Task{t}, nil
}

func (w *Workspace) logInsight(ctx context.Context, userID uuid.UUID, view domain.View, message string, extra map[string]any) error {
	eventCtx := map[string]any{
		"view":    string(view),
		"message": message,
	}
	for k, v := range extra {
		eventCtx[k] = v
	}
	event := repository.HistoryEvent{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        domain.EventPipooInsight,
		Description: fmt.Sprintf("Insight for %s view", view),
		Context:     eventCtx,
	}
	if err := w.history.Append(ctx, nil, event); err != nil {
		return err
	}
	w.notifier.HistoryAppended(userID, event)
	return nil
}

// profileFacts flattens the role-typed onboarding answers into the
// handful of fields the view derivations read, so the shared handlers
// stay role-agnostic.
type profileFacts struct {
	goal       string
	timeline   string
	blocker    string
	skills     string
	targetRole string
	timeBudget string
	direction  string
	objective  string
}

func factsFrom(a domain.OnboardingAnswers) profileFacts {
	f := profileFacts{
		goal:       "learning",
		timeline:   "6-12m",
		blocker:    "consistency",
		targetRole: "Developer",
		timeBudget: "1-2h",
	}
	switch {
	case a.Student != nil:
		s := a.Student
		if s.Goal != "" {
			f.goal = s.Goal
		}
		if s.Timeline != "" {
			f.timeline = s.Timeline
		}
		if s.Blocker != "" {
			f.blocker = s.Blocker
		}
		if s.TargetRole != "" {
			f.targetRole = s.TargetRole
		}
		if s.TimePerDay != "" {
			f.timeBudget = s.TimePerDay
		}
		f.skills = s.Skills
		if f.skills == "" {
			f.skills = strings.Join(s.Interests, ",")
		}
	case a.Professional != nil:
		p := a.Professional
		f.direction = p.Direction
		if f.direction == "" {
			f.direction = "upskill"
		}
		f.objective = p.Objective
		if p.Blocker != "" {
			f.blocker = p.Blocker
		}
		if p.TimePerSession != "" {
			f.timeBudget = p.TimePerSession
		}
		f.skills = p.Domain
	}
	return f
}

func studentOverviewMessage(facts profileFacts, stats repository.TaskStats, recentCompletions int) string {
	message := fmt.Sprintf("You want to be %s in %s. ", facts.goal, facts.timeline)
	switch {
	case stats.Completed == 0:
		message += "Let's start. Complete today's task."
	case recentCompletions >= 5:
		message += fmt.Sprintf("Strong momentum: %d tasks completed recently. Keep going.", recentCompletions)
	case stats.Skipped > stats.Completed:
		message += fmt.Sprintf("You've skipped more than completed. Your blocker is %s. Let's fix that.", facts.blocker)
	default:
		message += "You're making progress. Stay consistent."
	}
	return message
}

// synthesizeDailyTask picks the task from the declared skills, first
// matching keyword wins, else falls back to the stated goal.
func synthesizeDailyTask(userID uuid.UUID, facts profileFacts, assigned time.Time) repository.Task {
	title := fmt.Sprintf("Work on %s goal", facts.goal)
	description := "Focus on core skill development"

	skills := strings.ToLower(facts.skills)
	switch {
	case strings.Contains(skills, "python"):
		title = "Practice Python fundamentals"
		description = "Write 3 small programs to reinforce concepts"
	case strings.Contains(skills, "javascript"):
		title = "Build a small JS project"
		description = "Create an interactive web component"
	}

	return repository.Task{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Description:   description,
		Type:          domain.TaskTypeDaily,
		Difficulty:    domain.DifficultyMedium,
		EstimatedTime: facts.timeBudget,
		AssignedDate:  assigned,
	}
}

// roleRequirements is the static target-role to required-skills table
// behind the career view's gap analysis.
var roleRequirements = map[string][]string{
	"Full Stack Developer": {"HTML", "CSS", "JavaScript", "React", "Node.js", "Database", "Git"},
	"Data Scientist":       {"Python", "Statistics", "Machine Learning", "SQL", "Pandas"},
	"Backend Developer":    {"Python", "Database", "API Design", "Git"},
}

func skillGaps(declared []string, targetRole string) []string {
	have := make(map[string]struct{}, len(declared))
	for _, s := range declared {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	gaps := make([]string, 0)
	for _, required := range roleRequirements[targetRole] {
		if _, ok := have[strings.ToLower(required)]; !ok {
			gaps = append(gaps, required)
		}
	}
	return gaps
}

func splitSkills(skills string) []string {
	if strings.TrimSpace(skills) == "" {
		return []string{}
	}
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func taskViews(tasks []repository.Task) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskView(t))
	}
	return out
}

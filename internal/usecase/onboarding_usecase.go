package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"clarity/internal/domain"
	"clarity/internal/repository"
)

type OnboardingStatus struct {
	Completed bool
	Role      domain.Role
	Answers   *domain.OnboardingAnswers
}

type OnboardingUsecase interface {
	Submit(ctx context.Context, userID uuid.UUID, actorRole domain.Role, answers domain.OnboardingAnswers) error
	Status(ctx context.Context, userID uuid.UUID) (OnboardingStatus, error)
	Reset(ctx context.Context, userID uuid.UUID) error
}

type Onboarding struct {
	users    repository.UserRepository
	profiles repository.OnboardingRepository
	history  repository.HistoryRepository
	notifier ActivityNotifier
	now      func() time.Time
}

func NewOnboardingUsecase(users repository.UserRepository, profiles repository.OnboardingRepository, history repository.HistoryRepository, notifier ActivityNotifier) *Onboarding {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Onboarding{
		users:    users,
		profiles: profiles,
		history:  history,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit persists the answers and flips the account's onboarding flag.
// The answers must match the caller's role; a second submission is a
// conflict rather than an overwrite.
func (o *Onboarding) Submit(ctx context.Context, userID uuid.UUID, actorRole domain.Role, answers domain.OnboardingAnswers) error {
	if !actorRole.Valid() {
		return ErrForbidden
	}
	answersRole, ok := answers.Role()
	if !ok {
		return ErrInvalidInput
	}
	if answersRole != actorRole {
		return ErrForbidden
	}
	if err := answers.Validate(actorRole); err != nil {
		return ErrInvalidInput
	}

	answers.Version = domain.AnswersVersion

	p := repository.OnboardingProfile{
		ID:          uuid.New(),
		UserID:      userID,
		Role:        actorRole,
		Answers:     answers,
		CompletedAt: o.now().UTC(),
	}
	if err := o.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			return ErrConflict
		}
		return ErrInternal
	}

	if err := o.users.SetOnboardingCompleted(ctx, userID, true); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	event := repository.HistoryEvent{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        domain.EventOnboardingCompleted,
		Description: "Onboarding completed",
		Context:     map[string]any{"role": string(actorRole)},
	}
	if err := o.history.Append(ctx, nil, event); err != nil {
		return ErrInternal
	}
	o.notifier.HistoryAppended(userID, event)

	return nil
}

func (o *Onboarding) Status(ctx context.Context, userID uuid.UUID) (OnboardingStatus, error) {
	u, err := o.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return OnboardingStatus{}, ErrNotFound
		}
		return OnboardingStatus{}, ErrInternal
	}

	st := OnboardingStatus{Completed: u.OnboardingCompleted, Role: u.Role}
	if !u.OnboardingCompleted {
		return st, nil
	}

	p, err := o.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			// Flag set but profile missing: report incomplete rather
			// than erroring, the client will re-run onboarding.
			st.Completed = false
			return st, nil
		}
		return OnboardingStatus{}, ErrInternal
	}
	st.Answers = &p.Answers
	return st, nil
}

func (o *Onboarding) Reset(ctx context.Context, userID uuid.UUID) error {
	if err := o.profiles.DeleteByUserID(ctx, userID); err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return ErrInternal
	}
	if err := o.users.SetOnboardingCompleted(ctx, userID, false); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	_ = o.history.Append(ctx, nil, repository.HistoryEvent{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        domain.EventOther,
		Description: "Onboarding reset",
	})
	return nil
}

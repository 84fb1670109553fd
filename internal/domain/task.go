package domain

import (
	"fmt"
	"strings"
)

// TaskType is the closed set of task categories.
type TaskType string

const (
	TaskTypeDaily    TaskType = "daily"
	TaskTypeSkill    TaskType = "skill"
	TaskTypeOptional TaskType = "optional"
	TaskTypeMicro    TaskType = "micro"
)

func ParseTaskType(s string) (TaskType, error) {
	switch TaskType(strings.ToLower(strings.TrimSpace(s))) {
	case TaskTypeDaily:
		return TaskTypeDaily, nil
	case TaskTypeSkill:
		return TaskTypeSkill, nil
	case TaskTypeOptional:
		return TaskTypeOptional, nil
	case TaskTypeMicro:
		return TaskTypeMicro, nil
	default:
		return "", fmt.Errorf("unknown task type: %q", s)
	}
}

func (t TaskType) String() string { return string(t) }

// Difficulty is optional on a task; the empty value means unset.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return "", nil
	}
	switch Difficulty(v) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
}

func (d Difficulty) String() string { return string(d) }

package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength is the upper bound on a description, in characters.
const MaxDescriptionLength = 1000

// Domain entity. Does not depend on gin, redis or any store.
type Task struct {
	ID          uint64    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var now = func() time.Time { return time.Now().UTC() }

// NewTask builds a pending task stamped with the current time.
func NewTask(id uint64, description string) (Task, error) {
	ts := now()
	t := Task{
		ID:          id,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (t Task) Validate() error {
	return validateDescription(t.Description)
}

func (t *Task) Complete() {
	t.Completed = true
	t.UpdatedAt = now()
}

func (t *Task) Uncomplete() {
	t.Completed = false
	t.UpdatedAt = now()
}

// UpdateDescription replaces the description. On failure the task is left
// exactly as it was, UpdatedAt included.
func (t *Task) UpdateDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	t.Description = description
	t.UpdatedAt = now()
	return nil
}

func (t Task) IsCompleted() bool { return t.Completed }

func (t Task) IsPending() bool { return !t.Completed }

type CreateTask struct {
	Description string
}

func (c CreateTask) Validate() error {
	return validateDescription(c.Description)
}

// UpdateTask is a partial update. Nil fields are left untouched.
type UpdateTask struct {
	Description *string
	Completed   *bool
}

func (u UpdateTask) Validate() error {
	if u.Description != nil {
		return validateDescription(*u.Description)
	}
	return nil
}

func (u UpdateTask) IsEmpty() bool {
	return u.Description == nil && u.Completed == nil
}

// Trimmed description must be non-empty; the raw one must fit the limit.
func validateDescription(d string) error {
	if strings.TrimSpace(d) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(d) > MaxDescriptionLength {
		return &DescriptionTooLongError{Max: MaxDescriptionLength}
	}
	return nil
}

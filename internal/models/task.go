package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// Step is a single checklist entry within a task.
type Step struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is a checklist with a title, a description and an ordered list of steps.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Steps       []Step    `json:"steps"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TimestampLayout is the wire format of createdAt: UTC with exactly three
// fractional digits.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalJSON writes createdAt in TimestampLayout.
func (t Task) MarshalJSON() ([]byte, error) {
	type task Task
	return json.Marshal(struct {
		task
		CreatedAt string `json:"createdAt"`
	}{
		task:      task(t),
		CreatedAt: t.CreatedAt.UTC().Format(TimestampLayout),
	})
}

// Completed reports whether every step of the task is completed.
// A task without steps is complete.
func (t *Task) Completed() bool {
	for _, s := range t.Steps {
		if !s.Completed {
			return false
		}
	}
	return true
}

// CompletedSteps returns the number of completed steps.
func (t *Task) CompletedSteps() int {
	n := 0
	for _, s := range t.Steps {
		if s.Completed {
			n++
		}
	}
	return n
}

// StepIndex returns the position of the step with the given id, or -1.
func (t *Task) StepIndex(stepID int64) int {
	for i, s := range t.Steps {
		if s.ID == stepID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the task so callers never share the step slice
// with the store.
func (t Task) Clone() Task {
	steps := make([]Step, len(t.Steps))
	copy(steps, t.Steps)
	t.Steps = steps
	return t
}

// NewTask holds the fields used to create a task.
type NewTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// Validate checks that every field is present and every step has text.
// It is only applied when strict validation is enabled.
func (n NewTask) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if err := required(n.Title); err != nil {
		errs = errs.Append("title", err)
	}
	if err := required(n.Description); err != nil {
		errs = errs.Append("description", err)
	}
	for i, text := range n.Steps {
		if err := StepText(text); err != nil {
			errs = errs.Append(fmt.Sprintf("steps[%d]", i), err)
		}
	}

	return errs.ToError()
}

// TaskUpdate holds the optional fields of a task update. Nil or empty
// fields leave the stored value untouched.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Apply merges the update into the task.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil && *u.Title != "" {
		t.Title = *u.Title
	}
	if u.Description != nil && *u.Description != "" {
		t.Description = *u.Description
	}
}

// NewStep holds the fields used to append a step to a task.
type NewStep struct {
	Text string `json:"text"`
}

// Validate checks that the step has text.
func (n NewStep) Validate() error {
	return criterio.Run("text", n.Text, StepText)
}

// StepText validates the text of a single step.
func StepText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("text is required")
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}

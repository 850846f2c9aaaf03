package store

import (
	"context"
	"errors"
	"time"

	"checklist/internal/models"
)

var (
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrStepNotFound is returned when the task exists but has no step with
	// the requested id.
	ErrStepNotFound = errors.New("step not found")
)

// Store defines the task operations. Implementations keep their data for
// the lifetime of the process only and serialize every operation.
type Store interface {
	// Task operations
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, input models.NewTask) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	// Step operations
	ToggleStep(ctx context.Context, taskID, stepID int64) (*models.Task, error)
	AddStep(ctx context.Context, taskID int64, text string) (*models.Task, error)
	DeleteStep(ctx context.Context, taskID, stepID int64) (*models.Task, error)

	// Stats aggregates completion over every task.
	Stats(ctx context.Context) (models.Stats, error)

	// Lifecycle
	Close() error
}

// Drivers supported by New.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// New creates the store for the given driver, loaded with seed.
func New(driver string, seed []models.Task) (Store, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteStore(seed)
	default:
		return NewMemoryStore(seed), nil
	}
}

// now is the creation timestamp for new tasks: UTC with millisecond precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// nextIDs returns the counters that follow the highest ids in tasks.
func nextIDs(tasks []models.Task) (nextTask, nextStep int64) {
	nextTask, nextStep = 1, 1
	for _, t := range tasks {
		if t.ID >= nextTask {
			nextTask = t.ID + 1
		}
		for _, s := range t.Steps {
			if s.ID >= nextStep {
				nextStep = s.ID + 1
			}
		}
	}
	return nextTask, nextStep
}

package store

import (
	"context"
	"fmt"
	"sync"

	"checklist/internal/models"
)

// MemoryStore implements the Store interface with an ordered slice guarded by
// a single mutex. Every operation holds the lock from lookup to mutation.
type MemoryStore struct {
	mu         sync.Mutex
	tasks      []models.Task
	nextTaskID int64
	nextStepID int64
}

// NewMemoryStore creates a store holding a copy of seed. The id counters
// start after the highest seeded ids.
func NewMemoryStore(seed []models.Task) *MemoryStore {
	tasks := make([]models.Task, 0, len(seed))
	for _, t := range seed {
		tasks = append(tasks, t.Clone())
	}

	nextTask, nextStep := nextIDs(seed)
	return &MemoryStore{
		tasks:      tasks,
		nextTaskID: nextTask,
		nextStepID: nextStep,
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// ListTasks returns every task in insertion order.
func (s *MemoryStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t.Clone())
	}
	return tasks, nil
}

// GetTask retrieves a task by ID.
func (s *MemoryStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(id)
	if err != nil {
		return nil, err
	}
	return s.copyLocked(i), nil
}

// CreateTask appends a new task with one fresh step per step text.
func (s *MemoryStore) CreateTask(ctx context.Context, input models.NewTask) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:          s.nextTaskID,
		Title:       input.Title,
		Description: input.Description,
		Steps:       make([]models.Step, 0, len(input.Steps)),
		CreatedAt:   now(),
	}
	s.nextTaskID++

	for _, text := range input.Steps {
		task.Steps = append(task.Steps, s.newStepLocked(text))
	}

	s.tasks = append(s.tasks, task)
	return s.copyLocked(len(s.tasks) - 1), nil
}

// UpdateTask replaces the title and description fields present in update.
func (s *MemoryStore) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(id)
	if err != nil {
		return nil, err
	}

	update.Apply(&s.tasks[i])
	return s.copyLocked(i), nil
}

// DeleteTask removes a task.
func (s *MemoryStore) DeleteTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(id)
	if err != nil {
		return err
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// ToggleStep flips the completed flag of a step.
func (s *MemoryStore) ToggleStep(ctx context.Context, taskID, stepID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, j, err := s.stepIndexLocked(taskID, stepID)
	if err != nil {
		return nil, err
	}

	step := &s.tasks[i].Steps[j]
	step.Completed = !step.Completed
	return s.copyLocked(i), nil
}

// AddStep appends a new, open step to a task.
func (s *MemoryStore) AddStep(ctx context.Context, taskID int64, text string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(taskID)
	if err != nil {
		return nil, err
	}

	s.tasks[i].Steps = append(s.tasks[i].Steps, s.newStepLocked(text))
	return s.copyLocked(i), nil
}

// DeleteStep removes a step from a task, keeping the order of the rest.
func (s *MemoryStore) DeleteStep(ctx context.Context, taskID, stepID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, j, err := s.stepIndexLocked(taskID, stepID)
	if err != nil {
		return nil, err
	}

	steps := s.tasks[i].Steps
	s.tasks[i].Steps = append(steps[:j], steps[j+1:]...)
	return s.copyLocked(i), nil
}

// Stats aggregates completion over every task.
func (s *MemoryStore) Stats(ctx context.Context) (models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.ComputeStats(s.tasks), nil
}

func (s *MemoryStore) newStepLocked(text string) models.Step {
	step := models.Step{ID: s.nextStepID, Text: text}
	s.nextStepID++
	return step
}

func (s *MemoryStore) indexLocked(id int64) (int, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
}

// stepIndexLocked looks the task up first so a missing task wins over a
// missing step.
func (s *MemoryStore) stepIndexLocked(taskID, stepID int64) (int, int, error) {
	i, err := s.indexLocked(taskID)
	if err != nil {
		return -1, -1, err
	}

	j := s.tasks[i].StepIndex(stepID)
	if j < 0 {
		return -1, -1, fmt.Errorf("task %d step %d: %w", taskID, stepID, ErrStepNotFound)
	}
	return i, j, nil
}

func (s *MemoryStore) copyLocked(i int) *models.Task {
	t := s.tasks[i].Clone()
	return &t
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"checklist/internal/models"
)

// memoryDSN opens a private in-memory database. It lives as long as its single
// connection, which the pool never closes.
const memoryDSN = ":memory:?_foreign_keys=on"

// SQLiteStore implements the Store interface on an in-memory SQLite database.
// The pool is limited to one connection, so operations never interleave and
// each mutation runs in its own transaction.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteStore creates a new in-memory SQLite store loaded with seed.
func NewSQLiteStore(seed []models.Task) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background(), seed); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// init creates the schema and loads seed in a single transaction.
func (s *SQLiteStore) init(ctx context.Context, seed []models.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := createSchema(ctx, tx); err != nil {
		return err
	}
	if err := load(ctx, tx, seed); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return tx.Commit()
}

// load inserts tasks with their existing ids and moves the counters past them.
func load(ctx context.Context, tx *sql.Tx, tasks []models.Task) error {
	for _, task := range tasks {
		if err := insertTask(ctx, tx, &task); err != nil {
			return err
		}
		for i, step := range task.Steps {
			if err := insertStep(ctx, tx, task.ID, step, i+1); err != nil {
				return err
			}
		}
	}

	nextTask, nextStep := nextIDs(tasks)
	for name, next := range map[string]int64{"task": nextTask, "step": nextStep} {
		_, err := tx.ExecContext(ctx, `
			UPDATE id_counters SET next_id = MAX(next_id, ?) WHERE name = ?
		`, next, name)
		if err != nil {
			return fmt.Errorf("failed to update %s counter: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection, discarding every task.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// read runs fn in a transaction so multi-query reads see one snapshot. The
// single connection stays checked out until fn returns.
func (s *SQLiteStore) read(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ListTasks retrieves all tasks in creation order with their steps.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.read(ctx, func(tx *sql.Tx) error {
		var err error
		tasks, err = listTasks(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func listTasks(ctx context.Context, q querier) ([]models.Task, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, description, created_at FROM tasks ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	index := make(map[int64]int)
	for rows.Next() {
		task := models.Task{Steps: []models.Step{}}
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		index[task.ID] = len(tasks)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	stepRows, err := q.QueryContext(ctx, `
		SELECT task_id, id, text, completed FROM steps ORDER BY task_id ASC, position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer stepRows.Close()

	for stepRows.Next() {
		var (
			taskID int64
			step   models.Step
		)
		if err := stepRows.Scan(&taskID, &step.ID, &step.Text, &step.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Steps = append(tasks[i].Steps, step)
		}
	}

	return tasks, stepRows.Err()
}

// GetTask retrieves a task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task *models.Task
	err := s.read(ctx, func(tx *sql.Tx) error {
		var err error
		task, err = getTask(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask inserts a task and one fresh step per step text.
func (s *SQLiteStore) CreateTask(ctx context.Context, input models.NewTask) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "task")
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Steps:       make([]models.Step, 0, len(input.Steps)),
		CreatedAt:   now(),
	}
	if err := insertTask(ctx, tx, task); err != nil {
		return nil, err
	}

	for i, text := range input.Steps {
		stepID, err := nextID(ctx, tx, "step")
		if err != nil {
			return nil, err
		}

		step := models.Step{ID: stepID, Text: text}
		if err := insertStep(ctx, tx, task.ID, step, i+1); err != nil {
			return nil, err
		}
		task.Steps = append(task.Steps, step)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit task: %w", err)
	}

	return task, nil
}

// UpdateTask replaces the title and description fields present in update.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	task, err := getTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(task)

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ? WHERE id = ?
	`, task.Title, task.Description, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit task update: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task and its steps.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := expectRow(result, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM steps WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete steps: %w", err)
	}

	return tx.Commit()
}

// ToggleStep flips the completed flag of a step.
func (s *SQLiteStore) ToggleStep(ctx context.Context, taskID, stepID int64) (*models.Task, error) {
	return s.mutateStep(ctx, taskID, stepID, `
		UPDATE steps SET completed = NOT completed WHERE task_id = ? AND id = ?
	`)
}

// DeleteStep removes a step from a task.
func (s *SQLiteStore) DeleteStep(ctx context.Context, taskID, stepID int64) (*models.Task, error) {
	return s.mutateStep(ctx, taskID, stepID, `
		DELETE FROM steps WHERE task_id = ? AND id = ?
	`)
}

// mutateStep runs query against one step of an existing task and returns the
// task as it is afterwards.
func (s *SQLiteStore) mutateStep(ctx context.Context, taskID, stepID int64, query string) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := taskExists(ctx, tx, taskID); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, query, taskID, stepID)
	if err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}
	if err := expectRow(result, fmt.Errorf("task %d step %d: %w", taskID, stepID, ErrStepNotFound)); err != nil {
		return nil, err
	}

	task, err := getTask(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit step: %w", err)
	}

	return task, nil
}

// AddStep appends a new, open step to a task.
func (s *SQLiteStore) AddStep(ctx context.Context, taskID int64, text string) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := taskExists(ctx, tx, taskID); err != nil {
		return nil, err
	}

	stepID, err := nextID(ctx, tx, "step")
	if err != nil {
		return nil, err
	}

	var position int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) + 1 FROM steps WHERE task_id = ?
	`, taskID).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("failed to get step position: %w", err)
	}

	if err := insertStep(ctx, tx, taskID, models.Step{ID: stepID, Text: text}, position); err != nil {
		return nil, err
	}

	task, err := getTask(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit step: %w", err)
	}

	return task, nil
}

// Stats aggregates completion over every task.
func (s *SQLiteStore) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := s.read(ctx, func(tx *sql.Tx) error {
		tasks, err := listTasks(ctx, tx)
		if err != nil {
			return err
		}
		stats = models.ComputeStats(tasks)
		return nil
	})
	return stats, err
}

func getTask(ctx context.Context, q querier, id int64) (*models.Task, error) {
	task := &models.Task{Steps: []models.Step{}}

	err := q.QueryRowContext(ctx, `
		SELECT id, title, description, created_at FROM tasks WHERE id = ?
	`, id).Scan(&task.ID, &task.Title, &task.Description, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, text, completed FROM steps WHERE task_id = ? ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var step models.Step
		if err := rows.Scan(&step.ID, &step.Text, &step.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		task.Steps = append(task.Steps, step)
	}

	return task, rows.Err()
}

func taskExists(ctx context.Context, tx *sql.Tx, id int64) error {
	var found int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM tasks WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	return nil
}

// nextID allocates the next value of a named counter.
func nextID(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT next_id FROM id_counters WHERE name = ?`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s counter: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE id_counters SET next_id = ? WHERE name = ?`, id+1, name); err != nil {
		return 0, fmt.Errorf("failed to advance %s counter: %w", name, err)
	}

	return id, nil
}

func insertTask(ctx context.Context, tx *sql.Tx, task *models.Task) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, created_at) VALUES (?, ?, ?, ?)
	`, task.ID, task.Title, task.Description, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func insertStep(ctx context.Context, tx *sql.Tx, taskID int64, step models.Step, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO steps (task_id, id, position, text, completed) VALUES (?, ?, ?, ?, ?)
	`, taskID, step.ID, position, step.Text, step.Completed)
	if err != nil {
		return fmt.Errorf("failed to create step: %w", err)
	}
	return nil
}

// expectRow returns notFound when the statement touched no row.
func expectRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

package handlers

import (
	"net/http"

	"checklist/internal/models"
)

// ListTasks returns every task.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks(r.Context())
	if err != nil {
		h.respondServerError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, tasks)
}

// GetTask returns a single task.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.GetTask(r.Context(), parseID(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, task)
}

// CreateTask creates a new task from a title, a description and a list of
// step texts.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var input models.NewTask
	if err := decodeBody(r, createTaskSchema, &input); err != nil {
		h.respondBodyError(w, err)
		return
	}

	if h.strict {
		if err := input.Validate(); err != nil {
			h.respondBodyError(w, fieldError(err))
			return
		}
	}

	task, err := h.store.CreateTask(r.Context(), input)
	if err != nil {
		h.respondServerError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, task)
}

// UpdateTask replaces the title and/or description of an existing task.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := parseID(r, "id")

	if _, err := h.store.GetTask(ctx, id); err != nil {
		h.respondStoreError(w, err)
		return
	}

	var update models.TaskUpdate
	if err := decodeBody(r, updateTaskSchema, &update); err != nil {
		h.respondBodyError(w, err)
		return
	}

	task, err := h.store.UpdateTask(ctx, id, update)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTask(r.Context(), parseID(r, "id")); err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

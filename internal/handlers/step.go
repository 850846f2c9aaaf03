package handlers

import (
	"net/http"

	"checklist/internal/models"
)

// ToggleStep flips the completion of a step and returns its task.
func (h *Handlers) ToggleStep(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.ToggleStep(r.Context(), parseID(r, "id"), parseID(r, "stepId"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, task)
}

// AddStep appends a step to a task and returns the task.
func (h *Handlers) AddStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID := parseID(r, "id")

	if _, err := h.store.GetTask(ctx, taskID); err != nil {
		h.respondStoreError(w, err)
		return
	}

	var input models.NewStep
	if err := decodeBody(r, addStepSchema, &input); err != nil {
		h.respondBodyError(w, err)
		return
	}

	if h.strict {
		if err := input.Validate(); err != nil {
			h.respondBodyError(w, fieldError(err))
			return
		}
	}

	task, err := h.store.AddStep(ctx, taskID, input.Text)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, task)
}

// DeleteStep removes a step from a task and returns the task.
func (h *Handlers) DeleteStep(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.DeleteStep(r.Context(), parseID(r, "id"), parseID(r, "stepId"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, task)
}

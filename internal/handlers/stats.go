package handlers

import "net/http"

// Stats returns the completion summary over every task.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.respondServerError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

// Health reports that the server is up.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

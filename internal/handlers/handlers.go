package handlers

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"checklist/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store  store.Store
	static fs.FS
	strict bool
	logger zerolog.Logger
}

// Options configures New.
type Options struct {
	// Static is the frontend asset tree served at the root. Nil disables it.
	Static fs.FS
	// Strict rejects blank titles, descriptions and step texts.
	Strict bool
	// Logger receives access logs and internal errors. Nil discards them.
	Logger *zerolog.Logger
}

// New creates a new Handlers instance.
func New(s store.Store, opts Options) *Handlers {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Handlers{
		store:  s,
		static: opts.Static,
		strict: opts.Strict,
		logger: logger,
	}
}

// parseID extracts an integer ID from URL parameters. Values that do not
// parse yield -1, which matches no stored id.
func parseID(r *http.Request, param string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		return -1
	}
	return id
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondJSON writes v as the JSON response body.
func (h *Handlers) respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}

// respondError sends an error response.
func (h *Handlers) respondError(w http.ResponseWriter, code int, message string) {
	h.respondJSON(w, code, errorResponse{Error: message})
}

func (h *Handlers) respondServerError(w http.ResponseWriter, err error) {
	h.logger.Error().Err(err).Msg("internal server error")
	h.respondError(w, http.StatusInternalServerError, "internal server error")
}

// respondStoreError maps store errors to their HTTP status.
func (h *Handlers) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		h.respondError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, store.ErrStepNotFound):
		h.respondError(w, http.StatusNotFound, "Step not found")
	default:
		h.respondServerError(w, err)
	}
}

// respondBodyError maps request decoding and validation errors to 400.
func (h *Handlers) respondBodyError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Fields: verr.Fields})
		return
	}
	h.respondError(w, http.StatusBadRequest, "invalid json")
}

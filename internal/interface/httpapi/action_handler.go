package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"inboxpert-service/internal/domain/entity"
	"inboxpert-service/internal/usecase"
	"inboxpert-service/pkg/logger"
)

const (
	maxRequestBytes = 1 << 20
	defaultRunLimit = 20
	maxRunLimit     = 100

	// time allowed to write the response after a timed-out run
	responseGrace = 5 * time.Second
)

// Dispatcher runs a triggered action
type Dispatcher interface {
	Dispatch(ctx context.Context, req entity.ActionRequest, trigger string) (entity.ActionResponse, error)
}

// RunLister lists recent categorization runs
type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]*entity.CategorizationRun, error)
}

// ActionHandler serves the action trigger and run log endpoints
type ActionHandler struct {
	dispatcher    Dispatcher
	runs          RunLister // nil when the run log is disabled
	actionTimeout time.Duration
	logger        logger.Logger
}

// NewActionHandler creates a new action handler; runs may be nil.
// A positive actionTimeout bounds each action run and extends the
// response write deadline past the server's WriteTimeout.
func NewActionHandler(dispatcher Dispatcher, runs RunLister, actionTimeout time.Duration, logger logger.Logger) *ActionHandler {
	return &ActionHandler{
		dispatcher:    dispatcher,
		runs:          runs,
		actionTimeout: actionTimeout,
		logger:        logger,
	}
}

// Register adds the handler routes to mux
func (h *ActionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /actions", h.HandleAction)
	if h.runs != nil {
		mux.HandleFunc("GET /runs", h.HandleRuns)
	}
}

// HandleAction decodes {"action": ...} and answers with the action response
func (h *ActionHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	var req entity.ActionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, entity.ActionResponse{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	ctx := r.Context()
	if h.actionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.actionTimeout)
		defer cancel()

		deadline := time.Now().Add(h.actionTimeout + responseGrace)
		if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil {
			h.logger.Debug("Write deadline not extended", "error", err)
		}
	}

	resp, err := h.dispatcher.Dispatch(ctx, req, entity.TriggerAction)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, usecase.ErrUnknownAction):
		h.writeJSON(w, http.StatusBadRequest, resp)
	default:
		h.logger.Error("Action failed", "action", req.Action, "error", err)
		h.writeJSON(w, http.StatusBadGateway, resp)
	}
}

// HandleRuns lists recent runs; ?limit=N, default 20, capped at 100
func (h *ActionHandler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list runs", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list runs"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// WithCORS allows the extension origin to call the API.
// An empty origin disables the headers.
func WithCORS(origin string, next http.Handler) http.Handler {
	if origin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *ActionHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debug("Failed to write response", "status", status, "error", err)
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/halvard/bifrost/internal/apperr"
	"github.com/halvard/bifrost/internal/reconcile"
	"github.com/halvard/bifrost/internal/sse"
	"github.com/halvard/bifrost/internal/vaultops"
)

// Handler exposes the service over HTTP.
type Handler struct {
	svc    *vaultops.Service
	broker *sse.Broker // nil when SSE is disabled
}

// NewHandler creates a new API handler.
func NewHandler(svc *vaultops.Service, broker *sse.Broker) *Handler {
	return &Handler{svc: svc, broker: broker}
}

// notify broadcasts an operation outcome to SSE subscribers.
func (h *Handler) notify(eventType string, data any) {
	if h.broker != nil {
		h.broker.Publish(sse.Event{Type: eventType, Data: data})
	}
}

// Scan runs the compatibility battery and returns the issues.
// GET /scan
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	issues, err := h.svc.Scan()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	h.notify("scan.completed", map[string]int{"issues": len(issues)})
	writeJSON(w, http.StatusOK, ScanResponse{Issues: issues, Clean: len(issues) == 0})
}

// Fix applies a selected subset of issues.
// POST /fix
func (h *Handler) Fix(w http.ResponseWriter, r *http.Request) {
	var req FixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	res := h.svc.ApplyFixes(req.Issues, req.DryRun)
	if !req.DryRun {
		h.notify("fix.applied", res)
	}
	writeJSON(w, http.StatusOK, res)
}

// Sync runs one bookmark reconciliation pass.
// POST /sync
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	direction := h.svc.DefaultDirection()
	if req.Direction != "" {
		var err error
		direction, err = reconcile.ParseDirection(req.Direction)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
	}
	report, err := h.svc.Sync(direction)
	if err != nil {
		writeJSON(w, statusForError(err), errorBody(err.Error()))
		return
	}
	h.notify("sync.completed", report)
	writeJSON(w, http.StatusOK, report)
}

// Resolve commits a candidate choice for one ambiguous name.
// POST /sync/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if req.Name == "" || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name and path are required"))
		return
	}
	if err := h.svc.ResolveAmbiguous(req.Name, req.Path); err != nil {
		writeJSON(w, statusForError(err), errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateMissing creates and bookmarks an empty page for a missing name.
// POST /sync/create
func (h *Handler) CreateMissing(w http.ResponseWriter, r *http.Request) {
	var req CreateMissingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	f, err := h.svc.CreateMissing(req.Name)
	if err != nil {
		writeJSON(w, statusForError(err), errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// Status reports corpus size.
// GET /status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	files, folders, err := h.svc.CorpusSize()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Files: files, Folders: folders})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrStoreCorrupt):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
